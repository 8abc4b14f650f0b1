package scene

// Default number of points a non-zero shutter span is partitioned into
// when the camera does not specify one.
const defaultShutterPoints = 8

// ShutterSample is one point of a camera's shutter schedule: a time value,
// a weight applied to radiance estimates at that time and the number of
// samples dispatched for it.
type ShutterSample struct {
	Time        float32
	Weight      float32
	SampleCount uint32
}

// ShutterSamples derives the camera's shutter schedule. The schedule is
// ordered by time and its sample counts sum to exactly SPP. An explicit
// schedule on the node takes precedence; otherwise the shutter span is
// partitioned uniformly, and a zero-length span collapses to a single
// point carrying all samples.
func (c *CameraNode) ShutterSamples() ([]ShutterSample, error) {
	if len(c.Shutter) > 0 {
		if err := ValidateSchedule(c.Shutter); err != nil {
			return nil, err
		}
		out := make([]ShutterSample, len(c.Shutter))
		copy(out, c.Shutter)
		return out, nil
	}

	if c.SPP == 0 {
		return nil, ErrInvalidSPP
	}

	span := c.ShutterClose - c.ShutterOpen
	if span <= 0 {
		return []ShutterSample{{Time: c.ShutterOpen, Weight: 1, SampleCount: c.SPP}}, nil
	}

	points := c.ShutterPoints
	if points == 0 {
		points = defaultShutterPoints
	}
	if points > c.SPP {
		points = c.SPP
	}

	// Distribute spp across the points; the first spp%points entries
	// carry one extra sample so the counts sum exactly to spp.
	base := c.SPP / points
	extra := c.SPP % points

	schedule := make([]ShutterSample, points)
	for i := uint32(0); i < points; i++ {
		count := base
		if i < extra {
			count++
		}
		schedule[i] = ShutterSample{
			Time:        c.ShutterOpen + span*(float32(i)+0.5)/float32(points),
			Weight:      1,
			SampleCount: count,
		}
	}
	return schedule, nil
}

// ValidateSchedule checks a shutter schedule for the invariants the render
// loop relies on: non-empty, positive per-point sample counts and
// non-negative weights.
func ValidateSchedule(schedule []ShutterSample) error {
	if len(schedule) == 0 {
		return ErrEmptyShutter
	}
	for _, s := range schedule {
		if s.SampleCount == 0 {
			return ErrInvalidShutterCount
		}
		if s.Weight < 0 {
			return ErrNegativeWeight
		}
	}
	return nil
}
