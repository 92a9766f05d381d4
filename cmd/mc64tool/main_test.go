package main

import (
	"flag"
	"reflect"
	"testing"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		output  string
		verbose bool
	}{
		{"flags first", []string{"-o", "out", "-v", "in.obj"}, []string{"in.obj"}, "out", true},
		{"flags last", []string{"in.obj", "-o", "out"}, []string{"in.obj"}, "out", false},
		{"interleaved", []string{"a", "-v", "b", "-o", "x"}, []string{"a", "b"}, "x", true},
		{"no args", nil, nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			output := fs.String("o", "", "")
			verbose := fs.Bool("v", false, "")

			got := parseArgs(fs, tt.args)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("positional = %v, want %v", got, tt.want)
			}
			if *output != tt.output {
				t.Errorf("-o = %q, want %q", *output, tt.output)
			}
			if *verbose != tt.verbose {
				t.Errorf("-v = %v, want %v", *verbose, tt.verbose)
			}
		})
	}
}
