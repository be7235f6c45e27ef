package routepath

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantPath    string
		wantQuery   string
		wantChanged bool
		wantErr     error
	}{
		{name: "root", input: "/", wantPath: "/"},
		{name: "empty", input: "", wantPath: "/", wantChanged: true},
		{name: "nested", input: "/users/1", wantPath: "/users/1"},
		{name: "trailing slash", input: "/users/", wantPath: "/users", wantChanged: true},
		{name: "double slash", input: "/users//1", wantPath: "/users/1", wantChanged: true},
		{name: "dot", input: "/users/./1", wantPath: "/users/1", wantChanged: true},
		{name: "dot dot", input: "/users/../about", wantPath: "/about", wantChanged: true},
		{name: "relative", input: "users", wantPath: "/users", wantChanged: true},
		{name: "query", input: "/users/?tab=1", wantPath: "/users", wantQuery: "tab=1", wantChanged: true},
		{name: "valid escape", input: "/users/%41nn", wantPath: "/users/%41nn"},
		{name: "backslash", input: `/users\1`, wantErr: ErrBackslash},
		{name: "nul", input: "/users/%00", wantErr: ErrNullByte},
		{name: "bad escape", input: "/users/%G1", wantErr: ErrBadEscape},
		{name: "short escape", input: "/users/%4", wantErr: ErrBadEscape},
		{name: "escapes root", input: "/../secret", wantErr: ErrEscapesRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.input)
			if err != tt.wantErr {
				t.Fatalf("Canonicalize(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if got.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got.Path, tt.wantPath)
			}
			if got.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", got.Query, tt.wantQuery)
			}
			if got.Changed != tt.wantChanged {
				t.Errorf("Changed = %v, want %v", got.Changed, tt.wantChanged)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		value    string
		catchAll bool
		want     string
		wantErr  error
	}{
		{value: "Ann", want: "Ann"},
		{value: "%41nn", want: "Ann"},
		{value: "a%20b", want: "a b"},
		{value: "a%2Fb", wantErr: ErrEncodedSlash},
		{value: "a%2Fb", catchAll: true, want: "a/b"},
		{value: "a/b", catchAll: true, want: "a/b"},
		{value: "%zz", wantErr: ErrBadEscape},
	}

	for _, tt := range tests {
		got, err := Decode(tt.value, tt.catchAll)
		if err != tt.wantErr {
			t.Errorf("Decode(%q, %v) error = %v, want %v", tt.value, tt.catchAll, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Decode(%q, %v) = %q, want %q", tt.value, tt.catchAll, got, tt.want)
		}
	}
}
