/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#ff0000", Color{255, 0, 0, 255}},
		{"00ff00", Color{0, 255, 0, 255}},
		{"#abc", Color{0xaa, 0xbb, 0xcc, 255}},
		{"#10203040", Color{0x10, 0x20, 0x30, 0x40}},
	}
	for _, c := range cases {
		got, err := ParseHex(c.in)
		if err != nil {
			t.Fatalf("ParseHex(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseHex(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
	if _, err := ParseHex("#12345"); err == nil {
		t.Fatalf("expected error for malformed color")
	}
	if _, err := ParseHex("#gggggg"); err == nil {
		t.Fatalf("expected error for non-hex digits")
	}
}

func TestColorTextRoundTrip(t *testing.T) {
	c := Color{1, 2, 3, 128}
	b, _ := c.MarshalText()
	var back Color
	if err := back.UnmarshalText(b); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if back != c {
		t.Fatalf("round trip = %+v, want %+v", back, c)
	}
	if White.Hex() != "#ffffff" {
		t.Fatalf("White.Hex() = %q", White.Hex())
	}
}
