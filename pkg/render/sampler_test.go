package render

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/willbeason/buddhabrot/pkg/escape"
	"github.com/willbeason/buddhabrot/pkg/geometry"
	"github.com/willbeason/buddhabrot/pkg/trajectory"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Threads = 4
	cfg.MaxIterations = 200
	cfg.Width = 64
	cfg.Height = 64
	cfg.Trajectories = 400
	cfg.Seed = 42
	cfg.Timeout = 2 * time.Second
	return cfg
}

func checkTrajectory(t *testing.T, cfg Config, tr trajectory.Trajectory) {
	t.Helper()

	if escape.WillLoopForever(tr.Seed) {
		t.Errorf("Emitted seed %v inside cardioid or bulb", tr.Seed)
	}
	if tr.Length > cfg.MaxIterations {
		t.Errorf("Length %d exceeds max iterations %d", tr.Length, cfg.MaxIterations)
	}
	if tr.Length < cfg.MinIterations {
		t.Errorf("Length %d below min iterations %d", tr.Length, cfg.MinIterations)
	}
	if len(tr.Waypoints) > tr.Length {
		t.Errorf("Expected at most %d waypoints, got %d", tr.Length, len(tr.Waypoints))
	}
	for _, p := range tr.Waypoints {
		if p.X < 0 || p.X >= cfg.Width || p.Y < 0 || p.Y >= cfg.Height {
			t.Errorf("Waypoint (%d,%d) outside %dx%d", p.X, p.Y, cfg.Width, cfg.Height)
		}
	}

	// Re-running the orbit must agree that it escaped at the recorded length.
	if res := escape.Orbit(tr.Seed, cfg.MaxIterations, nil); !res.Escaped || res.Length != tr.Length {
		t.Errorf("Expected seed %v to escape at %d, got %+v", tr.Seed, tr.Length, res)
	}
}

func TestSampler_Trace(t *testing.T) {
	cfg := testConfig()
	cfg.CenterX, cfg.CenterY, cfg.Zoom = 0, 0, 0

	tests := []struct {
		name          string
		minIterations int
		c             geometry.Complex
		expectOK      bool
		expectLength  int
	}{
		{"origin never escapes", 0, geometry.New(0, 0), false, 0},
		{"bulb never escapes", 0, geometry.New(-1, 0), false, 0},
		{"tip cycles", 0, geometry.New(-2, 0), false, 0},
		{"escapes at two", 0, geometry.New(2, 0), true, 2},
		{"escapes at two, at the minimum", 2, geometry.New(2, 0), true, 2},
		{"escapes too early", 3, geometry.New(2, 0), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := cfg
			cfg.MinIterations = tt.minIterations
			s := NewSampler(0, cfg, rand.New(rand.NewPCG(1, 1)))

			tr, ok := s.Trace(tt.c)
			if ok != tt.expectOK {
				t.Fatalf("Expected ok=%v, got %v (stats %+v)", tt.expectOK, ok, s.Stats)
			}
			if ok && tr.Length != tt.expectLength {
				t.Errorf("Expected length %d, got %d", tt.expectLength, tr.Length)
			}
			if ok && tr.Seed != tt.c {
				t.Errorf("Expected seed %v, got %v", tt.c, tr.Seed)
			}
		})
	}
}

func TestSampler_TraceWaypoints(t *testing.T) {
	cfg := testConfig()
	cfg.CenterX, cfg.CenterY, cfg.Zoom = 0, 0, 0 // view [-2,2)×[-2,2)
	cfg.Width, cfg.Height = 8, 8
	s := NewSampler(0, cfg, rand.New(rand.NewPCG(1, 1)))

	// 1 -> 2 -> 5: z1 = 1 is inside, z2 = 2 sits on the excluded edge, z3 = 5 is outside.
	tr, ok := s.Trace(geometry.New(1, 0))
	if !ok {
		t.Fatalf("Expected c=1 to escape")
	}
	if tr.Length != 3 {
		t.Errorf("Expected length 3, got %d", tr.Length)
	}
	if len(tr.Waypoints) != 1 {
		t.Fatalf("Expected 1 waypoint, got %d", len(tr.Waypoints))
	}
	if p := tr.Waypoints[0]; p.X != 6 || p.Y != 4 || p.Point != geometry.New(1, 0) {
		t.Errorf("Expected waypoint (6,4) at 1+0i, got %+v", p)
	}
}

func TestSampler_StatsAccounting(t *testing.T) {
	cfg := testConfig()
	cfg.MinIterations = 10
	s := NewSampler(0, cfg, rand.New(rand.NewPCG(3, 4)))

	for i := 0; i < 2000; i++ {
		if tr, ok := s.Draw(); ok {
			checkTrajectory(t, cfg, tr)
		}
	}

	st := s.Stats
	if st.Attempts != 2000 {
		t.Errorf("Expected 2000 attempts, got %d", st.Attempts)
	}
	if sum := st.Bounded + st.Cycled + st.Captive + st.Short + st.Emitted; sum != st.Attempts {
		t.Errorf("Expected outcomes to sum to attempts %d, got %d (%+v)", st.Attempts, sum, st)
	}
	if st.Bounded == 0 || st.Emitted == 0 {
		t.Errorf("Expected both rejected and emitted seeds, got %+v", st)
	}
}

func TestSampler_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	s := NewSampler(0, cfg, rand.New(rand.NewPCG(5, 6)))

	// Nobody reads this queue, so the sampler blocks on its first push until cancelled.
	out := make(chan trajectory.Trajectory)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, 1000, out)
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil error on cancel, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Sampler did not stop after cancel")
	}
}

func TestSampler_RunQuota(t *testing.T) {
	cfg := testConfig()
	s := NewSampler(0, cfg, rand.New(rand.NewPCG(7, 8)))

	out := make(chan trajectory.Trajectory, 25)
	if err := s.Run(context.Background(), 25, out); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	close(out)

	n := 0
	for tr := range out {
		checkTrajectory(t, cfg, tr)
		n++
	}
	if n != 25 {
		t.Errorf("Expected 25 trajectories, got %d", n)
	}
}

func TestSampler_RetainedWaypointsSurviveLaterTraces(t *testing.T) {
	cfg := testConfig()
	cfg.CenterX, cfg.CenterY, cfg.Zoom = 0, 0, 0
	cfg.Width, cfg.Height = 8, 8
	s := NewSampler(0, cfg, rand.New(rand.NewPCG(1, 1)))

	kept, ok := s.Trace(geometry.New(1, 0))
	if !ok {
		t.Fatalf("Expected c=1 to escape")
	}
	want := kept.Waypoints[0]

	// A rejected real-axis orbit writes many waypoints into the sampler's buffer.
	if _, ok := s.Trace(geometry.New(-1.9, 0)); ok {
		t.Fatalf("Expected c=-1.9 to stay bounded")
	}
	if _, ok := s.Trace(geometry.New(2, 0)); !ok {
		t.Fatalf("Expected c=2 to escape")
	}

	if len(kept.Waypoints) != 1 || kept.Waypoints[0] != want {
		t.Errorf("Expected retained waypoints %+v to be unchanged, got %+v", want, kept.Waypoints)
	}
}

func TestSampler_RejectedOrbitsDoNotAllocate(t *testing.T) {
	cfg := testConfig()
	cfg.CenterX, cfg.CenterY, cfg.Zoom = 0, 0, 0
	s := NewSampler(0, cfg, rand.New(rand.NewPCG(1, 1)))

	allocs := testing.AllocsPerRun(20, func() {
		s.Trace(geometry.New(-1.9, 0))
	})
	if allocs != 0 {
		t.Errorf("Expected no allocations for a rejected orbit, got %v", allocs)
	}
}
