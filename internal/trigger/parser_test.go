package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `<?xml version="1.0" encoding="UTF-8"?>
<TriggerPoint>
  <ConditionTypeCNF>1</ConditionTypeCNF>
  <SPT>
    <Group>1</Group>
    <SessionCase>0</SessionCase>
  </SPT>
  <SPT>
    <Group>0</Group>
    <Method>INVITE</Method>
  </SPT>
  <SPT>
    <ConditionNegated>1</ConditionNegated>
    <Group>1</Group>
    <RequestURI>sip:test@example.com</RequestURI>
  </SPT>
  <SPT>
    <Group>2</Group>
    <Extension></Extension>
    <SIPHeader>
      <Header>P-Asserted-Identity</Header>
      <Content>alice</Content>
    </SIPHeader>
  </SPT>
</TriggerPoint>`

func TestParse_Sample(t *testing.T) {
	tp, err := Parse(sampleDocument)
	require.NoError(t, err)

	require.NotNil(t, tp.CNF)
	assert.Equal(t, uint8(1), *tp.CNF)
	assert.Nil(t, tp.DNF)
	require.Len(t, tp.Conditions, 4)

	first := tp.Conditions[0]
	assert.Equal(t, uint8(1), first.Group)
	require.NotNil(t, first.SessionCase)
	assert.Equal(t, SessionOriginated, *first.SessionCase)
	assert.Nil(t, first.Method)
	assert.False(t, first.IsNegated())

	second := tp.Conditions[1]
	require.NotNil(t, second.Method)
	assert.Equal(t, "INVITE", *second.Method)

	third := tp.Conditions[2]
	assert.True(t, third.IsNegated())
	require.NotNil(t, third.RequestURI)
	assert.Equal(t, "sip:test@example.com", *third.RequestURI)

	fourth := tp.Conditions[3]
	require.NotNil(t, fourth.Extension)
	assert.Equal(t, "", *fourth.Extension)
	require.NotNil(t, fourth.SIPHeader)
	assert.Equal(t, SIPHeader{Header: "P-Asserted-Identity", Content: "alice"}, *fourth.SIPHeader)
}

func TestParse_OptionalFieldsAbsent(t *testing.T) {
	tp, err := Parse(`<TriggerPoint><SPT><Group>3</Group></SPT></TriggerPoint>`)
	require.NoError(t, err)

	assert.Nil(t, tp.CNF)
	assert.Nil(t, tp.DNF)
	require.Len(t, tp.Conditions, 1)
	c := tp.Conditions[0]
	assert.Equal(t, uint8(3), c.Group)
	assert.Nil(t, c.Negated)
	assert.Nil(t, c.Method)
	assert.Nil(t, c.Extension)
	assert.Nil(t, c.SessionCase)
	assert.Nil(t, c.RequestURI)
	assert.Nil(t, c.SIPHeader)
}

func TestParse_EmptyMarkerIsPresent(t *testing.T) {
	tp, err := Parse(`<TriggerPoint><ConditionTypeCNF/></TriggerPoint>`)
	require.NoError(t, err)
	require.NotNil(t, tp.CNF)
	assert.Equal(t, uint8(0), *tp.CNF)
	assert.Empty(t, tp.Conditions)
}

func TestParse_WhitespaceAroundNumbers(t *testing.T) {
	tp, err := Parse("<TriggerPoint><SPT><Group>\n  7\n</Group><SessionCase> 9 </SessionCase></SPT></TriggerPoint>")
	require.NoError(t, err)
	require.Len(t, tp.Conditions, 1)
	assert.Equal(t, uint8(7), tp.Conditions[0].Group)
	assert.Equal(t, SessionCase(9), *tp.Conditions[0].SessionCase)
}

func TestParse_UnknownElementsIgnored(t *testing.T) {
	doc := `<TriggerPoint>
  <SPT>
    <Group>0</Group>
    <RegistrationType>1</RegistrationType>
    <Method>REGISTER</Method>
  </SPT>
</TriggerPoint>`
	tp, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, tp.Conditions, 1)
	assert.Equal(t, "REGISTER", *tp.Conditions[0].Method)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"plain text", "this is not a document"},
		{"truncated", `<TriggerPoint><SPT><Group>0</Group>`},
		{"mismatched tags", `<TriggerPoint><SPT><Group>0</SPT></Group></TriggerPoint>`},
		{"missing group", `<TriggerPoint><SPT><Method>INVITE</Method></SPT></TriggerPoint>`},
		{"empty group", `<TriggerPoint><SPT><Group/><Method>INVITE</Method></SPT></TriggerPoint>`},
		{"blank group", `<TriggerPoint><SPT><Group>  </Group><Method>INVITE</Method></SPT></TriggerPoint>`},
		{"empty session case", `<TriggerPoint><SPT><Group>0</Group><SessionCase/></SPT></TriggerPoint>`},
		{"empty negation", `<TriggerPoint><SPT><ConditionNegated></ConditionNegated><Group>0</Group></SPT></TriggerPoint>`},
		{"non numeric group", `<TriggerPoint><SPT><Group>first</Group></SPT></TriggerPoint>`},
		{"group out of range", `<TriggerPoint><SPT><Group>256</Group></SPT></TriggerPoint>`},
		{"negative session case", `<TriggerPoint><SPT><Group>0</Group><SessionCase>-1</SessionCase></SPT></TriggerPoint>`},
		{"non numeric marker", `<TriggerPoint><ConditionTypeCNF>yes</ConditionTypeCNF></TriggerPoint>`},
		{"header without content", `<TriggerPoint><SPT><Group>0</Group><SIPHeader><Header>From</Header></SIPHeader></SPT></TriggerPoint>`},
		{"header without name", `<TriggerPoint><SPT><Group>0</Group><SIPHeader><Content>x</Content></SIPHeader></SPT></TriggerPoint>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp, err := Parse(tt.doc)
			assert.Nil(t, tp)
			assert.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

func TestTriggerPoint_Groups(t *testing.T) {
	method := "INVITE"
	tp := &TriggerPoint{Conditions: []SPT{
		{Group: 9, Method: &method},
		{Group: 2},
		{Group: 9},
		{Group: 0},
	}}

	keys, groups := tp.Groups()
	assert.Equal(t, []uint8{0, 2, 9}, keys)
	require.Len(t, groups[9], 2)
	assert.Equal(t, &method, groups[9][0].Method, "document order kept inside a group")
	assert.Nil(t, groups[9][1].Method)
}
