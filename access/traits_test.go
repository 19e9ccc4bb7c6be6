package access

import "testing"

// These scenarios mirror original_source/test/tstAccessTraits.cpp: the four
// ways a caller can fail to supply a well-formed adapter, reproduced as
// runtime diagnostics since Go has no SFINAE-style static trait probing.

type wellFormedAdapter struct{ data []int }

func (a wellFormedAdapter) MemorySpace() MemorySpaceID { return HostSpace }
func (a wellFormedAdapter) Size() int                  { return len(a.data) }
func (a wellFormedAdapter) Get(i int) int              { return a.data[i] }

type emptySpecialization struct{}

type missingMemorySpace struct{ data []int }

func (a missingMemorySpace) Size() int     { return len(a.data) }
func (a missingMemorySpace) Get(i int) int { return a.data[i] }

// nonStaticSizeAdapter's Size dereferences a pointer only a real constructor
// would set up, so it panics on the zero value Diagnose probes with.
type nonStaticSizeAdapter struct{ backing *[]int }

func (a nonStaticSizeAdapter) MemorySpace() MemorySpaceID { return HostSpace }
func (a nonStaticSizeAdapter) Size() int                  { return len(*a.backing) }
func (a nonStaticSizeAdapter) Get(i int) int              { return (*a.backing)[i] }

func TestDiagnoseWellFormedAdapter(t *testing.T) {
	if err := Diagnose(wellFormedAdapter{data: []int{1, 2, 3}}); err != nil {
		t.Errorf("expected well-formed adapter to pass diagnosis, got %v", err)
	}
}

func TestDiagnoseMissingSpecialization(t *testing.T) {
	err := Diagnose(nil)
	if err == nil {
		t.Fatalf("expected error for nil adapter")
	}
	var me *MisuseError
	if !isMisuse(err, &me) {
		t.Fatalf("expected *MisuseError, got %T", err)
	}
	if me.Kind != MisuseMissingSpecialization {
		t.Errorf("expected MisuseMissingSpecialization, got %s", me.Kind)
	}
}

func TestDiagnoseEmptySpecialization(t *testing.T) {
	err := Diagnose(emptySpecialization{})
	var me *MisuseError
	if !isMisuse(err, &me) || me.Kind != MisuseEmptySpecialization {
		t.Fatalf("expected MisuseEmptySpecialization, got %v", err)
	}
}

func TestDiagnoseMissingMemorySpace(t *testing.T) {
	err := Diagnose(missingMemorySpace{data: []int{1}})
	var me *MisuseError
	if !isMisuse(err, &me) || me.Kind != MisuseMissingMemorySpace {
		t.Fatalf("expected MisuseMissingMemorySpace, got %v", err)
	}
}

func TestDiagnoseNonStaticSize(t *testing.T) {
	backing := []int{1, 2, 3}
	err := Diagnose(nonStaticSizeAdapter{backing: &backing})
	var me *MisuseError
	if !isMisuse(err, &me) || me.Kind != MisuseNonStaticSize {
		t.Fatalf("expected MisuseNonStaticSize, got %v", err)
	}
}

func isMisuse(err error, out **MisuseError) bool {
	me, ok := err.(*MisuseError)
	if ok {
		*out = me
	}
	return ok
}

// Compile-time check: SliceAccessor must satisfy Accessor for a concrete T.
var _ Accessor[int] = SliceAccessor[int]{}
