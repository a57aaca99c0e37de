package gesture

import (
	"testing"
	"time"

	"github.com/ayusman/gesturectl/internal/pose"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

func TestKindFor(t *testing.T) {
	tests := []struct {
		category pose.Category
		want     Kind
		ok       bool
	}{
		{pose.OpenPalm, Next, true},
		{pose.Fist, Previous, true},
		{pose.ThumbOnly, PlayPause, true},
		{pose.FourNoThumb, VolumeUp, true},
		{pose.ThreeMiddleOnly, VolumeDown, true},
		{pose.Standby, KindNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			got, ok := KindFor(tt.category)
			if got != tt.want || ok != tt.ok {
				t.Errorf("KindFor(%s) = (%s, %v), want (%s, %v)", tt.category, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestKind_Regime(t *testing.T) {
	edge := []Kind{Next, Previous, PlayPause}
	level := []Kind{VolumeUp, VolumeDown}

	for _, k := range edge {
		if k.Regime() != EdgeTriggered {
			t.Errorf("expected %s to be edge-triggered", k)
		}
	}
	for _, k := range level {
		if k.Regime() != LevelTriggered {
			t.Errorf("expected %s to be level-triggered", k)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = (%s, %v), want %s", k.String(), got, ok, k)
		}
	}
	if _, ok := ParseKind("none"); ok {
		t.Error("expected none not to parse as an actionable kind")
	}
}

func TestDebouncer_EdgeFiresOncePerHold(t *testing.T) {
	d := NewDebouncer(DefaultCooldowns())

	fired := 0
	// 40 frames at 16ms span 640ms, well inside the edge cooldown.
	for i := 0; i < 40; i++ {
		if k, ok := d.Evaluate(pose.OpenPalm, at(i*16)); ok {
			if k != Next {
				t.Fatalf("expected Next, got %s", k)
			}
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("expected exactly 1 Next, got %d", fired)
	}
}

func TestDebouncer_EdgeDoesNotRepeatAfterCooldown(t *testing.T) {
	d := NewDebouncer(DefaultCooldowns())

	fired := 0
	// Holding an open palm for five seconds still fires once.
	for ms := 0; ms <= 5000; ms += 33 {
		if _, ok := d.Evaluate(pose.OpenPalm, at(ms)); ok {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("expected exactly 1 firing while held, got %d", fired)
	}
}

func TestDebouncer_EdgeRearm(t *testing.T) {
	d := NewDebouncer(DefaultCooldowns())

	if _, ok := d.Evaluate(pose.OpenPalm, at(0)); !ok {
		t.Fatal("expected first open palm to fire")
	}

	// Switch away and back inside the cooldown: nothing fires yet.
	if _, ok := d.Evaluate(pose.Fist, at(100)); ok {
		t.Fatal("expected fist inside cooldown not to fire")
	}
	if _, ok := d.Evaluate(pose.OpenPalm, at(200)); ok {
		t.Fatal("expected open palm inside cooldown not to fire")
	}

	// Once the cooldown since the first firing has elapsed, it fires again.
	k, ok := d.Evaluate(pose.OpenPalm, at(701))
	if !ok || k != Next {
		t.Fatalf("expected Next after re-arm, got (%s, %v)", k, ok)
	}
}

func TestDebouncer_StandbyKeepsEdge(t *testing.T) {
	d := NewDebouncer(DefaultCooldowns())

	d.Evaluate(pose.OpenPalm, at(0))
	before := d.State()

	for ms := 10; ms < 2000; ms += 10 {
		if _, ok := d.Evaluate(pose.Standby, at(ms)); ok {
			t.Fatal("standby must never fire")
		}
	}

	if d.State() != before {
		t.Errorf("expected standby to leave state untouched, got %+v want %+v", d.State(), before)
	}
	if _, ok := d.Evaluate(pose.OpenPalm, at(2000)); ok {
		t.Error("expected open palm after standby jitter to stay suppressed")
	}
}

func TestDebouncer_EdgeCooldownIsStrict(t *testing.T) {
	d := NewDebouncer(DefaultCooldowns())

	d.Evaluate(pose.OpenPalm, at(0))
	if _, ok := d.Evaluate(pose.Fist, at(700)); ok {
		t.Error("expected firing exactly at the cooldown boundary to be suppressed")
	}
	if _, ok := d.Evaluate(pose.Fist, at(701)); !ok {
		t.Error("expected firing just past the cooldown")
	}
}

func TestDebouncer_LevelRepeats(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		step     time.Duration
	}{
		{"one second at 60Hz", time.Second, 16 * time.Millisecond},
		{"two seconds at 30Hz", 2 * time.Second, 33 * time.Millisecond},
		{"half second at 60Hz", 500 * time.Millisecond, 16 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDebouncer(DefaultCooldowns())

			fired := 0
			for elapsed := time.Duration(0); elapsed <= tt.duration; elapsed += tt.step {
				if k, ok := d.Evaluate(pose.FourNoThumb, epoch.Add(elapsed)); ok {
					if k != VolumeUp {
						t.Fatalf("expected VolumeUp, got %s", k)
					}
					fired++
				}
			}

			want := int(tt.duration / DefaultLevelCooldown)
			if fired < want-1 || fired > want+1 {
				t.Errorf("expected about %d VolumeUp events, got %d", want, fired)
			}
		})
	}
}

func TestDebouncer_LevelExactSpacing(t *testing.T) {
	d := NewDebouncer(Cooldowns{Edge: time.Second, Level: 100 * time.Millisecond})

	fired := 0
	for ms := 0; ms <= 1000; ms++ {
		if _, ok := d.Evaluate(pose.ThreeMiddleOnly, at(ms)); ok {
			fired++
		}
	}
	// Fires at 0, 101, 202, ... 909.
	if fired < 9 || fired > 11 {
		t.Errorf("expected about 10 VolumeDown events, got %d", fired)
	}
}

func TestDebouncer_LevelDoesNotTrackPattern(t *testing.T) {
	d := NewDebouncer(DefaultCooldowns())

	d.Evaluate(pose.FourNoThumb, at(0))
	if d.State().HasPattern {
		t.Error("expected level-triggered firing not to record a pattern")
	}

	// An edge kind fires once the shared cooldown has passed.
	if _, ok := d.Evaluate(pose.ThumbOnly, at(800)); !ok {
		t.Error("expected play/pause after volume to fire")
	}
}

func TestDebouncer_LevelDoesNotRearmEdge(t *testing.T) {
	d := NewDebouncer(DefaultCooldowns())

	if _, ok := d.Evaluate(pose.OpenPalm, at(0)); !ok {
		t.Fatal("expected first open palm to fire")
	}
	if _, ok := d.Evaluate(pose.FourNoThumb, at(800)); !ok {
		t.Fatal("expected volume up to fire")
	}
	if st := d.State(); !st.HasPattern || st.LastFiredPattern != pose.OpenPalm {
		t.Errorf("expected open palm pattern kept across volume, got %+v", st)
	}
	if _, ok := d.Evaluate(pose.OpenPalm, at(1600)); ok {
		t.Error("expected open palm after a volume pose to stay suppressed")
	}

	// An edge pose in between still re-arms it.
	d.Evaluate(pose.Fist, at(2400))
	if k, ok := d.Evaluate(pose.OpenPalm, at(3200)); !ok || k != Next {
		t.Errorf("expected Next after fist, got (%s, %v)", k, ok)
	}
}

func TestDebouncer_Arm(t *testing.T) {
	d := NewDebouncer(DefaultCooldowns())
	d.Arm(at(0))

	if _, ok := d.Evaluate(pose.OpenPalm, at(500)); ok {
		t.Error("expected open palm inside the startup hold to be suppressed")
	}
	if _, ok := d.Evaluate(pose.FourNoThumb, at(100)); ok {
		t.Error("expected volume inside the level cooldown of arming to be suppressed")
	}
	if k, ok := d.Evaluate(pose.OpenPalm, at(701)); !ok || k != Next {
		t.Errorf("expected Next once the hold has passed, got (%s, %v)", k, ok)
	}
}

func TestDebouncer_SharedFireTime(t *testing.T) {
	d := NewDebouncer(DefaultCooldowns())

	d.Evaluate(pose.OpenPalm, at(0))
	if _, ok := d.Evaluate(pose.FourNoThumb, at(100)); ok {
		t.Error("expected volume to wait for the level cooldown after an edge firing")
	}
	if _, ok := d.Evaluate(pose.FourNoThumb, at(151)); !ok {
		t.Error("expected volume after the level cooldown")
	}
}

func TestDebouncer_Reset(t *testing.T) {
	d := NewDebouncer(DefaultCooldowns())

	d.Evaluate(pose.OpenPalm, at(0))
	d.Reset()

	if _, ok := d.Evaluate(pose.OpenPalm, at(10)); !ok {
		t.Error("expected open palm to fire after reset")
	}
}

func TestDebouncer_SetCooldownsDefaults(t *testing.T) {
	d := NewDebouncer(Cooldowns{})
	if d.Cooldowns() != DefaultCooldowns() {
		t.Errorf("expected defaults, got %+v", d.Cooldowns())
	}

	d.SetCooldowns(Cooldowns{Edge: time.Second, Level: 50 * time.Millisecond})
	if d.Cooldowns().Edge != time.Second || d.Cooldowns().Level != 50*time.Millisecond {
		t.Errorf("unexpected cooldowns %+v", d.Cooldowns())
	}
}
