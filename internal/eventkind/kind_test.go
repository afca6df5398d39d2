package eventkind_test

import (
	"testing"

	"github.com/halvard/celd/internal/eventkind"
)

func TestRoundTrip(t *testing.T) {
	for k := eventkind.ChannelStart; k < eventkind.LocalOptimize+1; k++ {
		name := eventkind.Name(k)
		if name == "Unknown" {
			t.Fatalf("kind %d has no name", k)
		}
		got, ok := eventkind.ParseName(name)
		if !ok {
			t.Fatalf("ParseName(%q) not found", name)
		}
		if got != k {
			t.Errorf("round trip mismatch: kind=%d name=%q got=%d", k, name, got)
		}
	}
}

func TestParseNameIsCaseSensitive(t *testing.T) {
	if _, ok := eventkind.ParseName("hangup"); ok {
		t.Fatal("expected lowercase name to not match")
	}
	k, ok := eventkind.ParseName("HANGUP")
	if !ok || k != eventkind.Hangup {
		t.Fatalf("expected HANGUP to match Hangup, got %d ok=%v", k, ok)
	}
}

func TestParseNameUnknown(t *testing.T) {
	if _, ok := eventkind.ParseName("NOT_A_THING"); ok {
		t.Fatal("expected unknown name to fail")
	}
	if name := eventkind.Name(9999); name != "Unknown" {
		t.Errorf("expected Unknown for out-of-range kind, got %q", name)
	}
}

func TestParseListAll(t *testing.T) {
	set, err := eventkind.ParseList("ALL")
	if err != nil {
		t.Fatal(err)
	}
	if set != eventkind.All {
		t.Error("expected All set")
	}
	if !set.Has(eventkind.Hangup) || !set.Has(eventkind.LinkedIDEnd) {
		t.Error("expected ALL to track every kind")
	}
}

func TestParseListLowercaseAllIsUnknown(t *testing.T) {
	if _, err := eventkind.ParseList("all"); err == nil {
		t.Error("expected lowercase 'all' to be rejected, only the exact literal ALL is special")
	}
}

func TestParseListSpecificEvents(t *testing.T) {
	set, err := eventkind.ParseList("HANGUP, ANSWER ,APP_START")
	if err != nil {
		t.Fatal(err)
	}
	if !set.Has(eventkind.Hangup) || !set.Has(eventkind.Answer) || !set.Has(eventkind.AppStart) {
		t.Error("expected all three listed kinds tracked")
	}
	if set.Has(eventkind.Pickup) {
		t.Error("did not expect PICKUP tracked")
	}
}

func TestParseListUnknownName(t *testing.T) {
	_, err := eventkind.ParseList("HANGUP,BOGUS")
	if err == nil {
		t.Fatal("expected error for unknown event name")
	}
	var unknownErr *eventkind.UnknownEventError
	if !asUnknownEventError(err, &unknownErr) {
		t.Fatalf("expected UnknownEventError, got %T: %v", err, err)
	}
	if unknownErr.Name != "BOGUS" {
		t.Errorf("expected offending name BOGUS, got %q", unknownErr.Name)
	}
}

func asUnknownEventError(err error, target **eventkind.UnknownEventError) bool {
	if e, ok := err.(*eventkind.UnknownEventError); ok {
		*target = e
		return true
	}
	return false
}

func TestParseListIsCaseSensitiveForNonAllNames(t *testing.T) {
	if _, err := eventkind.ParseList("hangup"); err == nil {
		t.Fatal("expected lowercase non-ALL event name to be rejected")
	}
}

func TestSetNamesExcludesAllSentinelAndUntrackedKinds(t *testing.T) {
	set, err := eventkind.ParseList("HANGUP,ANSWER")
	if err != nil {
		t.Fatal(err)
	}
	names := set.Names()
	if len(names) != 2 {
		t.Fatalf("expected 2 names, got %v", names)
	}
	for _, n := range names {
		if n == "ALL" {
			t.Error("did not expect the ALL sentinel in Names()")
		}
	}
}

func TestSetNamesOnAllIncludesEveryDefinedKind(t *testing.T) {
	set, err := eventkind.ParseList("ALL")
	if err != nil {
		t.Fatal(err)
	}
	names := set.Names()
	if len(names) != int(eventkind.LocalOptimize-eventkind.ChannelStart+1) {
		t.Errorf("expected every defined kind listed, got %d: %v", len(names), names)
	}
}
