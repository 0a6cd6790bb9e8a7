package permissions

// Capability names a guarded operation. Handlers ask for capabilities, never
// for roles, so widening a role's access is a one-line registry change.
type Capability string

const (
	CapDepartmentManage  Capability = "department.manage"
	CapCourseManage      Capability = "course.manage"
	CapResourceView      Capability = "resource.view"
	CapPaymentManage     Capability = "payment.manage"
	CapRoutineManage     Capability = "routine.manage"
	CapRoutineView       Capability = "routine.view"
	CapUserActivate      Capability = "user.activate"
	CapEventCreate       Capability = "event.create"
	CapNotificationView  Capability = "notification.view"
	CapRegistrationOwn   Capability = "registration.own"
	CapStatsView         Capability = "stats.view"
)

var registry = map[Role]map[Capability]struct{}{
	RoleStudent: capSet(
		CapResourceView,
		CapRegistrationOwn,
		CapEventCreate,
		CapNotificationView,
		CapRoutineView,
		CapStatsView,
	),
	RoleTeacher: capSet(
		CapResourceView,
		CapEventCreate,
		CapNotificationView,
		CapRoutineView,
		CapStatsView,
	),
	RoleAdmin: capSet(
		CapDepartmentManage,
		CapCourseManage,
		CapResourceView,
		CapPaymentManage,
		CapRoutineManage,
		CapRoutineView,
		CapUserActivate,
		CapEventCreate,
		CapNotificationView,
		CapRegistrationOwn,
		CapStatsView,
	),
}

func capSet(caps ...Capability) map[Capability]struct{} {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}
