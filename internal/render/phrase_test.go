package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TimurManjosov/tpformat/internal/trigger"
)

func str(s string) *string { return &s }

func u8(v uint8) *uint8 { return &v }

func sc(v uint8) *trigger.SessionCase {
	c := trigger.SessionCase(v)
	return &c
}

func TestDescribeSessionCase(t *testing.T) {
	tests := []struct {
		code uint8
		want string
	}{
		{0, "mobile originated"},
		{1, "mobile terminated"},
		{2, "mobile originated unregistered"},
		{3, "mobile terminated unregistered"},
		{4, "session case 4"},
		{7, "session case 7"},
		{255, "session case 255"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DescribeSessionCase(trigger.SessionCase(tt.code)))
	}
}

func TestPhrase(t *testing.T) {
	tests := []struct {
		name string
		spt  trigger.SPT
		want string
	}{
		{
			name: "method",
			spt:  trigger.SPT{Method: str("INVITE")},
			want: "method is INVITE",
		},
		{
			name: "negated method",
			spt:  trigger.SPT{Method: str("INVITE"), Negated: u8(1)},
			want: "not (method is INVITE)",
		},
		{
			name: "negation marker zero",
			spt:  trigger.SPT{Method: str("INVITE"), Negated: u8(0)},
			want: "method is INVITE",
		},
		{
			name: "negation marker other than one",
			spt:  trigger.SPT{Method: str("INVITE"), Negated: u8(2)},
			want: "method is INVITE",
		},
		{
			name: "empty extension suppressed",
			spt:  trigger.SPT{Method: str("INVITE"), Extension: str("")},
			want: "method is INVITE",
		},
		{
			name: "unknown session case",
			spt:  trigger.SPT{SessionCase: sc(7)},
			want: "session case is session case 7",
		},
		{
			name: "sip header",
			spt:  trigger.SPT{SIPHeader: &trigger.SIPHeader{Header: "From", Content: "alice"}},
			want: `"From" header with "alice" value`,
		},
		{
			name: "all attributes in precedence order",
			spt: trigger.SPT{
				SIPHeader:   &trigger.SIPHeader{Header: "To", Content: "bob"},
				RequestURI:  str("sip:bob@example.com"),
				Extension:   str("x-ext"),
				SessionCase: sc(1),
				Method:      str("MESSAGE"),
			},
			want: `method is MESSAGE and session case is mobile terminated and extension is x-ext and request URI is sip:bob@example.com and "To" header with "bob" value`,
		},
		{
			name: "no attributes",
			spt:  trigger.SPT{},
			want: "",
		},
		{
			name: "negated without attributes",
			spt:  trigger.SPT{Negated: u8(1)},
			want: "not ()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Phrase(tt.spt))
		})
	}
}
