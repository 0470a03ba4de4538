package callpanel

import (
	"strings"
	"testing"
)

func TestSetGreetingArmsHighlight(t *testing.T) {
	m := New()
	m.SetGreeting("Ana")
	if m.Greeting != "Ana" {
		t.Errorf("Greeting = %q, want Ana", m.Greeting)
	}
	if !m.GreetingHot {
		t.Error("greeting highlight should be armed")
	}
	m.ClearHighlight(FieldGreeting)
	if m.GreetingHot {
		t.Error("greeting highlight should clear")
	}
}

func TestCounterRollConverges(t *testing.T) {
	m := New()
	m.SetCounter(7)
	if !m.Animating() {
		t.Fatal("SetCounter should start the animation")
	}

	// A couple seconds of frames is far more than the spring needs.
	for i := 0; i < FPS*5 && m.Animate(); i++ {
	}
	if m.Animating() {
		t.Fatal("spring did not settle")
	}
	v := m.View()
	if !strings.Contains(v, "7") {
		t.Errorf("view should show settled counter 7:\n%s", v)
	}
}

func TestCounterRetarget(t *testing.T) {
	m := New()
	m.SetCounter(3)
	for i := 0; i < 5; i++ {
		m.Animate()
	}
	// New target mid-roll: animation keeps going toward the new value.
	m.SetCounter(10)
	for i := 0; i < FPS*5 && m.Animate(); i++ {
	}
	if m.Counter() != 10 {
		t.Errorf("Counter() = %d, want 10", m.Counter())
	}
	if m.Animating() {
		t.Error("spring did not settle after retarget")
	}
}

func TestResetRestoresPlaceholder(t *testing.T) {
	m := New()
	m.Live = true
	m.SetGreeting("Ana")
	m.SetEcho("hi")
	m.Reset()
	if m.Live {
		t.Error("Reset should drop the live surface")
	}
	if m.GreetingHot || m.EchoHot || m.CounterHot {
		t.Error("Reset should clear highlights")
	}
	if m.Greeting != "Ana" {
		t.Error("Reset should keep the last displayed values")
	}
	if !strings.Contains(m.View(), "placeholder") {
		t.Error("view should show the media placeholder after reset")
	}
}

func TestViewLiveSurface(t *testing.T) {
	m := New()
	m.Live = true
	if !strings.Contains(m.View(), "LIVE") {
		t.Error("live view should show the active surface")
	}
}
