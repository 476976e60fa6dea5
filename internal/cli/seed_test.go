package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestSeedTable(t *testing.T) {
	out := seedTable("x", 3)

	for _, want := range []string{
		"120",
		"32444319", "3817827761", "3373276941",
		"0.007554", "0.888907", "0.785402",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("seedTable(\"x\", 3) missing %q:\n%s", want, out)
		}
	}
}

func TestSeedCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"default draws", []string{"seed", "abc"}, "96354", false},
		{"draw count", []string{"seed", "x", "-n", "1"}, "32444319", false},
		{"negative draws", []string{"seed", "x", "-n", "-1"}, "", true},
		{"missing seed", []string{"seed"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := New(io.Discard, LogInfo).RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(io.Discard)
			root.SetArgs(tt.args)

			err := root.Execute()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestSeedTableOnlyPrintsRequestedDraws(t *testing.T) {
	out := seedTable("x", 1)
	if strings.Contains(out, "3817827761") {
		t.Errorf("seedTable(\"x\", 1) printed a second draw:\n%s", out)
	}
}
