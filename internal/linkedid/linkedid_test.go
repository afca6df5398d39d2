package linkedid_test

import (
	"testing"

	"github.com/halvard/celd/internal/linkedid"
)

func TestRefUnrefSingleChannel(t *testing.T) {
	tr := linkedid.New()
	tr.Ref("L1")

	if last := tr.Unref("L1"); !last {
		t.Error("expected sole reference to report last=true")
	}
	if tr.RefCount("L1") != 0 {
		t.Errorf("expected entry removed, refcount=%d", tr.RefCount("L1"))
	}
}

func TestTwoChannelsShareLinkedIDOnlyLastUnrefFires(t *testing.T) {
	tr := linkedid.New()
	tr.Ref("L")
	tr.Ref("L")

	if last := tr.Unref("L"); last {
		t.Error("expected first unref of two references to report last=false")
	}
	if last := tr.Unref("L"); !last {
		t.Error("expected second unref to report last=true")
	}
}

func TestUnrefUntrackedIDReportsFalse(t *testing.T) {
	tr := linkedid.New()
	if last := tr.Unref("never-referenced"); last {
		t.Error("expected unref of untracked id to report false")
	}
}

func TestEmptyIDIsNoOp(t *testing.T) {
	tr := linkedid.New()
	tr.Ref("")
	if last := tr.Unref(""); last {
		t.Error("expected empty id to never report last=true")
	}
	if tr.RefCount("") != 0 {
		t.Error("expected empty id to never be tracked")
	}
}

func TestRefCountReflectsOutstandingReferences(t *testing.T) {
	tr := linkedid.New()
	tr.Ref("L")
	tr.Ref("L")
	tr.Ref("L")

	if tr.RefCount("L") != 3 {
		t.Errorf("expected refcount 3, got %d", tr.RefCount("L"))
	}
	tr.Unref("L")
	if tr.RefCount("L") != 2 {
		t.Errorf("expected refcount 2, got %d", tr.RefCount("L"))
	}
}
