package device

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/lumen-render/lumen/types"
)

func TestCompileValidation(t *testing.T) {
	dev := New("test", 4)

	type spec struct {
		desc   KernelDescriptor
		expErr error
	}
	specs := []spec{
		{KernelDescriptor{Name: "no-body", BlockSize: types.UVec2{16, 16}}, ErrMissingKernelFn},
		{KernelDescriptor{Name: "no-block", Body: func(types.UVec2, Args) {}}, ErrInvalidBlockSize},
	}

	for index, s := range specs {
		_, err := dev.Compile(s.desc)
		if !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}

func TestDispatchCoversEveryPixelOnce(t *testing.T) {
	dev := New("test", 4)
	s := dev.CreateStream()
	defer s.Close()

	resolution := types.UVec2{37, 21}
	visits := make([]int32, resolution.Area())

	kernel, err := dev.Compile(KernelDescriptor{
		Name:      "coverage",
		BlockSize: types.UVec2{16, 16},
		Body: func(pixel types.UVec2, _ Args) {
			atomic.AddInt32(&visits[pixel[1]*resolution[0]+pixel[0]], 1)
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	kernel.Dispatch(s, resolution, Args{})
	if err := s.Synchronize(); err != nil {
		t.Fatal(err)
	}

	for index, count := range visits {
		if count != 1 {
			t.Fatalf("expected pixel %d to be visited once; got %d visits", index, count)
		}
	}
}

func TestDispatchPassesArgs(t *testing.T) {
	dev := New("test", 1)
	s := dev.CreateStream()
	defer s.Close()

	var got Args
	kernel, err := dev.Compile(KernelDescriptor{
		Name:      "args",
		BlockSize: types.UVec2{8, 8},
		Body: func(_ types.UVec2, args Args) {
			got = args
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	expected := Args{SampleID: 7, Time: 0.25, Weight: 0.5}
	kernel.Dispatch(s, types.UVec2{1, 1}, expected)
	if err := s.Synchronize(); err != nil {
		t.Fatal(err)
	}

	if got != expected {
		t.Fatalf("expected kernel args %+v; got %+v", expected, got)
	}
}

func TestDispatchRejectsEmptyGrid(t *testing.T) {
	dev := New("test", 4)
	s := dev.CreateStream()
	defer s.Close()

	kernel, err := dev.Compile(KernelDescriptor{
		Name:      "empty-grid",
		BlockSize: types.UVec2{8, 8},
		Body:      func(types.UVec2, Args) {},
	})
	if err != nil {
		t.Fatal(err)
	}

	kernel.Dispatch(s, types.UVec2{0, 4}, Args{})
	if err := s.Synchronize(); !errors.Is(err, ErrInvalidGrid) {
		t.Fatalf("expected ErrInvalidGrid; got %v", err)
	}
}
