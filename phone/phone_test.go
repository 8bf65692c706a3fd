package phone

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func codes(opts []Option) []string {
	var out []string
	for _, o := range opts {
		s := o.ISOCode
		if o.Selected {
			s += "*"
		}
		out = append(out, s)
	}
	return out
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name        string
		selected    string
		restriction []string
		want        []string
	}{
		{
			name:        "Selected inside restriction",
			selected:    "bd",
			restriction: []string{"in", "BD", "us", "IN"},
			want:        []string{"IN", "BD*", "US"},
		},
		{
			name:        "Selected outside restriction goes first",
			selected:    "ES",
			restriction: []string{"FR", "DE"},
			want:        []string{"ES*", "FR", "DE"},
		},
		{
			name:        "Unknown codes are dropped",
			selected:    "XX",
			restriction: []string{"QQ", "FR"},
			want:        []string{"FR"},
		},
		{
			name:        "No selection",
			selected:    "",
			restriction: []string{"GB"},
			want:        []string{"GB"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codes(Options(tt.selected, tt.restriction))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Options() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOptionsWholeRegistry(t *testing.T) {
	all := Options("us", nil)
	reg := Registry()
	if len(all) != len(reg) {
		t.Fatalf("got %d options, want %d", len(all), len(reg))
	}

	selected := 0
	for i, o := range all {
		if o.ISOCode != reg[i].ISOCode {
			t.Fatalf("option %d = %s, want canonical %s", i, o.ISOCode, reg[i].ISOCode)
		}
		if o.Placeholder == "" {
			t.Errorf("option %s without placeholder", o.ISOCode)
		}
		if o.Selected {
			selected++
		}
	}
	if selected != 1 {
		t.Errorf("got %d selected options, want 1", selected)
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup(" bd ")
	if !ok || e.CallingCode != "+880" || e.Example != "01812-345678" {
		t.Errorf("Lookup(bd) = %+v, %v", e, ok)
	}
	if _, ok := Lookup("ZZ"); ok {
		t.Errorf("Lookup(ZZ) should fail")
	}
}

func TestRegistryIsReadOnly(t *testing.T) {
	r := Registry()
	r[0].ISOCode = "changed"
	if Registry()[0].ISOCode == "changed" {
		t.Fatalf("Registry() exposes internal state")
	}
}

func TestConcurrentOptions(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = Options("FR", []string{"ES", "FR"})
		}()
	}
	wg.Wait()
}
