package models

import "testing"

func TestBaseModelBeforeCreateGeneratesID(t *testing.T) {
	var base BaseModel
	if err := base.BeforeCreate(nil); err != nil {
		t.Fatalf("before create: %v", err)
	}
	if base.ID == "" {
		t.Fatal("expected base model ID to be generated")
	}
}

func TestBaseModelBeforeCreateKeepsExistingID(t *testing.T) {
	base := BaseModel{ID: "preset"}
	if err := base.BeforeCreate(nil); err != nil {
		t.Fatalf("before create: %v", err)
	}
	if base.ID != "preset" {
		t.Fatalf("expected preset ID to survive, got %q", base.ID)
	}
}

func TestEmbeddedModelsUseBaseBeforeCreate(t *testing.T) {
	cases := []struct {
		name  string
		model func() *BaseModel
	}{
		{"user", func() *BaseModel {
			u := &User{}
			return &u.BaseModel
		}},
		{"department", func() *BaseModel {
			d := &Department{}
			return &d.BaseModel
		}},
		{"course", func() *BaseModel {
			c := &Course{}
			return &c.BaseModel
		}},
		{"course_registration", func() *BaseModel {
			r := &CourseRegistration{}
			return &r.BaseModel
		}},
		{"payment", func() *BaseModel {
			p := &Payment{}
			return &p.BaseModel
		}},
		{"event", func() *BaseModel {
			e := &Event{}
			return &e.BaseModel
		}},
		{"event_registration", func() *BaseModel {
			r := &EventRegistration{}
			return &r.BaseModel
		}},
		{"event_payment", func() *BaseModel {
			p := &EventPayment{}
			return &p.BaseModel
		}},
		{"guest_user", func() *BaseModel {
			g := &GuestUser{}
			return &g.BaseModel
		}},
		{"notification", func() *BaseModel {
			n := &Notification{}
			return &n.BaseModel
		}},
		{"routine", func() *BaseModel {
			r := &Routine{}
			return &r.BaseModel
		}},
		{"stats", func() *BaseModel {
			s := &Stats{}
			return &s.BaseModel
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			model := tc.model()
			if err := model.BeforeCreate(nil); err != nil {
				t.Fatalf("before create: %v", err)
			}
			if model.ID == "" {
				t.Fatal("expected ID to be generated")
			}
		})
	}
}
