package rpkg

import "testing"

func TestLegacyByteRoundTrip(t *testing.T) {
	cases := []Reference{
		{RRID: 1, Type: ReferenceInstall, RuntimeAcquired: true},
		{RRID: 2, Type: ReferenceWeak, RuntimeAcquired: false},
		{RRID: 3, Type: ReferenceNormal, RuntimeAcquired: true},
	}
	for _, want := range cases {
		b := want.legacyByte()
		got := referenceFromLegacyByte(want.RRID, b)
		if got.Type != want.Type {
			t.Errorf("legacy round trip Type = %v, want %v", got.Type, want.Type)
		}
		if got.RuntimeAcquired != want.RuntimeAcquired {
			t.Errorf("legacy round trip RuntimeAcquired = %v, want %v", got.RuntimeAcquired, want.RuntimeAcquired)
		}
		if got.LanguageCode != defaultLanguageCode {
			t.Errorf("legacy-derived LanguageCode = %#x, want %#x", got.LanguageCode, defaultLanguageCode)
		}
	}
}

func TestNewByteRoundTrip(t *testing.T) {
	want := Reference{RRID: 99, Type: ReferenceWeak, RuntimeAcquired: true, LanguageCode: 0x0A}
	b := want.newByte()
	got := referenceFromNewByte(want.RRID, b)
	if got != want {
		t.Errorf("new-format round trip = %+v, want %+v", got, want)
	}
}

func TestLegacyExtraBitsPreservedAcrossLegacyRoundTrip(t *testing.T) {
	// A legacy byte with state_streamed set but no type bits: decoding then
	// re-encoding in legacy form must reproduce it exactly, even though the
	// new-format layout has no room for that bit.
	original := uint8(legacyBitStateStreamed | legacyBitRuntimeAcquired)
	r := referenceFromLegacyByte(42, original)
	if got := r.legacyByte(); got != original {
		t.Errorf("legacyByte() = %#x, want %#x", got, original)
	}
}

func TestCountAndFlagsAlwaysSetsAlwaysTrueBit(t *testing.T) {
	word := packCountAndFlags(5, true)
	if word&countFlagsAlwaysTrueBit == 0 {
		t.Errorf("expected always_true bit to be set")
	}
	count, newFormat := unpackCountAndFlags(word)
	if count != 5 || !newFormat {
		t.Errorf("unpackCountAndFlags() = (%d, %v), want (5, true)", count, newFormat)
	}
}

func TestIsAcquiredAccessor(t *testing.T) {
	r := Reference{RuntimeAcquired: true}
	if !r.IsAcquired() {
		t.Errorf("IsAcquired() = false, want true")
	}
}
