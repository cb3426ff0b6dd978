// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errs

import (
	"errors"
	"io"
	"math"
	"strings"
	"testing"
)

func TestWrapKeepsLevel(t *testing.T) {
	inner := NewWarn("bad ph")
	w := Wrap(inner, "decode request")
	if w.ErrLv != Warn {
		t.Fatalf("expected warn, got %s", w.ErrLv)
	}
	if !errors.Is(w, inner) {
		t.Fatalf("wrapped error should unwrap to inner")
	}

	std := Wrap(io.EOF, "read")
	if std.ErrLv != Fatal {
		t.Fatalf("foreign cause should be fatal, got %s", std.ErrLv)
	}
}

func TestInvalidMeasurement(t *testing.T) {
	if err := CheckFinite("ph", 6.2); err != nil {
		t.Fatalf("finite value rejected: %v", err)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := CheckFinite("ph", v)
		if err == nil {
			t.Fatalf("expected error for %v", v)
		}
		if !errors.Is(err, ErrInvalidMeasurement) {
			t.Fatalf("expected ErrInvalidMeasurement, got %v", err)
		}
		if LevelOf(err) != Warn {
			t.Fatalf("expected warn level for %v", v)
		}
	}
}

func TestErrorString(t *testing.T) {
	e := NewWithExtra(Fatal, "shots must > 0", "shots=0")
	s := e.Error()
	if !strings.Contains(s, "errlv=fatal") || !strings.Contains(s, "shots=0") {
		t.Fatalf("unexpected error string: %s", s)
	}
	if LevelOf(nil) != None {
		t.Fatalf("nil error should have no level")
	}
	if _, ok := AsErr(io.EOF); ok {
		t.Fatalf("io.EOF is not *E")
	}
}
