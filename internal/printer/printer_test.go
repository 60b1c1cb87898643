package printer

import (
	"strings"
	"testing"

	"github.com/curv-lang/curv/internal/value"
)

func TestPrintString(t *testing.T) {
	v := value.FromRef(value.NewString(`hi "there"`))
	got := Print(v, StyleJSON)
	if got != `"hi \"there\""` {
		t.Errorf("Print(json) = %q", got)
	}
}

func TestPrintStringCStyleUnquoted(t *testing.T) {
	v := value.FromRef(value.NewString("hello"))
	if got, want := Print(v, StyleC), "hello"; got != want {
		t.Errorf("Print(c) = %q, want %q", got, want)
	}
}

func TestPrintListOfNumbers(t *testing.T) {
	v := value.FromRef(value.NewList([]value.Value{value.Num(1), value.Num(2), value.Num(3)}))
	if got, want := Print(v, StyleC), "[1, 2, 3]"; got != want {
		t.Errorf("Print(list) = %q, want %q", got, want)
	}
}

func TestPrintRecordSortsFields(t *testing.T) {
	r := value.NewDRecord()
	r.Set("z", value.Num(1))
	r.Set("a", value.Num(2))
	got := Print(value.FromRef(r), StyleC)
	if !strings.HasPrefix(got, "{a: 2, z: 1}") {
		t.Errorf("Print(record) = %q, want fields in sorted order", got)
	}
}

func TestPrintRecordXMLStyle(t *testing.T) {
	r := value.NewDRecord()
	r.Set("x", value.Num(5))
	got := Print(value.FromRef(r), StyleXML)
	if got != "<record><x>5</x></record>" {
		t.Errorf("Print(record, xml) = %q", got)
	}
}

func TestPrintXMLEscapesStringContent(t *testing.T) {
	v := value.FromRef(value.NewString("a<b>&c"))
	got := Print(v, StyleXML)
	if got != `"a&lt;b>&amp;c"` {
		t.Errorf("Print(xml string) = %q", got)
	}
}

func TestPrintBoolAndMissing(t *testing.T) {
	if got := Print(value.True, StyleC); got != "true" {
		t.Errorf("Print(true) = %q", got)
	}
	if got := Print(value.Missing, StyleJSON); got != "null" {
		t.Errorf("Print(missing) = %q", got)
	}
}

func TestPrintSymbolCurvStyle(t *testing.T) {
	v := value.FromRef(value.Symbol("foo"))
	if got, want := Print(v, StyleCurv), "#foo"; got != want {
		t.Errorf("Print(symbol, curv) = %q, want %q", got, want)
	}
}
