package contract

import "testing"

func TestExtractAnswer(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{name: "simple", raw: "<answer>42</answer>", want: "42", wantOK: true},
		{name: "no tags", raw: "no tags here", wantOK: false},
		{name: "first match wins", raw: "<answer>A</answer> extra <answer>B</answer>", want: "A", wantOK: true},
		{name: "trims whitespace", raw: "<answer>\n  Sawgrass  \n</answer>", want: "Sawgrass", wantOK: true},
		{name: "multiline", raw: "<answer>line one\nline two</answer>", want: "line one\nline two", wantOK: true},
		{name: "surrounding prose", raw: "Sure! <answer>yes</answer> Hope that helps.", want: "yes", wantOK: true},
		{name: "unclosed", raw: "<answer>never closed", wantOK: false},
		{name: "closing only", raw: "text</answer>", wantOK: false},
		{name: "empty region", raw: "<answer></answer>", wantOK: false},
		{name: "whitespace region", raw: "<answer>   </answer>", wantOK: false},
		{name: "wrong case", raw: "<ANSWER>x</ANSWER>", wantOK: false},
		{name: "empty input", raw: "", wantOK: false},
		{name: "nested takes shortest", raw: "<answer>outer <answer>inner</answer></answer>", want: "outer <answer>inner", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAnswer(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("Expected ok=%v, got %v (answer %q)", tt.wantOK, ok, got)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
