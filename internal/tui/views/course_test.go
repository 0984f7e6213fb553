package views

import (
	"testing"

	"github.com/simkung/simkung/internal/simkung"
	"github.com/simkung/simkung/internal/tui/bigchar"
)

func TestSplashStart(t *testing.T) {
	sess, _ := newSession()
	m := NewSplashModel(sess, translator(t), bigchar.New(nil))
	m.SetSize(80, 24)

	if view := m.View(); view == "" {
		t.Fatal("empty splash")
	}
	m.Update(key("x"))
	if sess.Step() != simkung.StepSplash {
		t.Fatal("unrelated key left the splash")
	}
	m.Update(key("enter"))
	if sess.Step() != simkung.StepSetup {
		t.Errorf("step = %s, want setup", sess.Step())
	}
}

func TestCourseSelect(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want simkung.CourseMode
	}{
		{"enter picks basic", []string{"enter"}, simkung.CourseBasic},
		{"move then enter", []string{"j", "enter"}, simkung.CourseFree},
		{"wraps around", []string{"k", "enter"}, simkung.CourseFree},
		{"number key", []string{"2"}, simkung.CourseFree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, _ := newSession(sana)
			m := NewCourseModel(sess, translator(t))
			for _, k := range tt.keys {
				m, _ = m.Update(key(k))
			}
			if sess.Step() != simkung.StepChat || sess.Mode() != tt.want {
				t.Errorf("step=%s mode=%s, want chat/%s", sess.Step(), sess.Mode(), tt.want)
			}
		})
	}
}
