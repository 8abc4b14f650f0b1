package scene

import (
	"errors"
	"testing"

	"github.com/lumen-render/lumen/types"
)

func TestShutterSamplesZeroSpanCollapsesToSinglePoint(t *testing.T) {
	node := &CameraNode{SPP: 64}

	schedule, err := node.ShutterSamples()
	if err != nil {
		t.Fatal(err)
	}

	if len(schedule) != 1 {
		t.Fatalf("expected a single shutter sample; got %d", len(schedule))
	}
	if schedule[0].SampleCount != 64 {
		t.Fatalf("expected the single sample to carry all 64 spp; got %d", schedule[0].SampleCount)
	}
	if schedule[0].Weight != 1 {
		t.Fatalf("expected weight 1; got %f", schedule[0].Weight)
	}
}

func TestShutterSamplesPartitionSPPExactly(t *testing.T) {
	type spec struct {
		spp       uint32
		points    uint32
		expPoints int
	}
	specs := []spec{
		{64, 8, 8},
		{10, 4, 4},
		{3, 8, 3}, // points clamp to spp
		{7, 0, 7}, // default point count clamps too
	}

	for index, s := range specs {
		node := &CameraNode{SPP: s.spp, ShutterOpen: 0, ShutterClose: 1, ShutterPoints: s.points}
		schedule, err := node.ShutterSamples()
		if err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}

		if len(schedule) != s.expPoints {
			t.Fatalf("[spec %d] expected %d shutter points; got %d", index, s.expPoints, len(schedule))
		}

		var total uint32
		lastTime := float32(-1)
		for _, sample := range schedule {
			total += sample.SampleCount
			if sample.Time <= lastTime {
				t.Fatalf("[spec %d] expected shutter times to be strictly increasing", index)
			}
			lastTime = sample.Time
		}
		if total != s.spp {
			t.Fatalf("[spec %d] expected sample counts to sum to %d; got %d", index, s.spp, total)
		}
	}
}

func TestShutterSamplesExplicitScheduleWins(t *testing.T) {
	explicit := []ShutterSample{
		{Time: 0.1, Weight: 0.5, SampleCount: 2},
		{Time: 0.9, Weight: 0.5, SampleCount: 2},
	}
	node := &CameraNode{SPP: 4, ShutterOpen: 0, ShutterClose: 1, Shutter: explicit}

	schedule, err := node.ShutterSamples()
	if err != nil {
		t.Fatal(err)
	}
	if len(schedule) != 2 || schedule[0] != explicit[0] || schedule[1] != explicit[1] {
		t.Fatalf("expected explicit schedule to be returned verbatim; got %+v", schedule)
	}
}

func TestValidateSchedule(t *testing.T) {
	type spec struct {
		schedule []ShutterSample
		expErr   error
	}
	specs := []spec{
		{nil, ErrEmptyShutter},
		{[]ShutterSample{{Time: 0, Weight: 1, SampleCount: 0}}, ErrInvalidShutterCount},
		{[]ShutterSample{{Time: 0, Weight: -1, SampleCount: 1}}, ErrNegativeWeight},
		{[]ShutterSample{{Time: 0, Weight: 1, SampleCount: 1}}, nil},
	}

	for index, s := range specs {
		if err := ValidateSchedule(s.schedule); !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}

func TestCameraNodeValidate(t *testing.T) {
	valid := func() *CameraNode {
		return &CameraNode{
			FOV:        45,
			Resolution: types.UVec2{4, 4},
			SPP:        4,
			Output:     "out.png",
		}
	}

	type spec struct {
		mutate func(*CameraNode)
		expErr error
	}
	specs := []spec{
		{func(*CameraNode) {}, nil},
		{func(c *CameraNode) { c.Resolution[0] = 0 }, ErrInvalidResolution},
		{func(c *CameraNode) { c.SPP = 0 }, ErrInvalidSPP},
		{func(c *CameraNode) { c.FOV = 240 }, ErrInvalidFOV},
		{func(c *CameraNode) { c.Output = "" }, ErrMissingOutput},
		{func(c *CameraNode) { c.ShutterOpen = 1; c.ShutterClose = 0 }, ErrInvalidShutterSpan},
	}

	for index, s := range specs {
		node := valid()
		s.mutate(node)
		if err := node.Validate(); !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}
