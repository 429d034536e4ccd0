package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimurManjosov/tpformat/internal/trigger"
)

func TestCompileCEL_Source(t *testing.T) {
	src, err := CompileCEL(parse(t, sampleDocument), nil)
	require.NoError(t, err)
	assert.Equal(t,
		`(method == "INVITE") && ((sessionCase == 0) || (!(requestURI.contains("sip:test@example.com"))))`,
		src)
}

func TestCompileCEL_EmptyAndDegenerate(t *testing.T) {
	src, err := CompileCEL(parse(t, `<TriggerPoint><ConditionTypeCNF>1</ConditionTypeCNF></TriggerPoint>`), nil)
	require.NoError(t, err)
	assert.Equal(t, "true", src)

	src, err = CompileCEL(parse(t, `<TriggerPoint></TriggerPoint>`), nil)
	require.NoError(t, err)
	assert.Equal(t, "false", src)

	src, err = CompileCEL(parse(t, `<TriggerPoint><SPT><ConditionNegated>1</ConditionNegated><Group>0</Group></SPT></TriggerPoint>`), nil)
	require.NoError(t, err)
	assert.Equal(t, "!(true)", src)

	ok, err := EvaluateCEL(src, Request{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompileCEL_StrictPolicyError(t *testing.T) {
	_, err := CompileCEL(parse(t, `<TriggerPoint><SPT><Group>0</Group></SPT></TriggerPoint>`), trigger.StrictPolicy{})
	require.ErrorIs(t, err, trigger.ErrInvalidMarker)
}

func TestCompileCEL_QuotesLiterals(t *testing.T) {
	tp := parse(t, `<TriggerPoint>
  <SPT>
    <Group>0</Group>
    <SIPHeader><Header>Subject</Header><Content>say "hi"</Content></SIPHeader>
  </SPT>
</TriggerPoint>`)

	src, err := CompileCEL(tp, nil)
	require.NoError(t, err)

	ok, err := EvaluateCEL(src, Request{Headers: map[string]string{"SUBJECT": `they say "hi" twice`}})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = EvaluateCEL(src, Request{})
	require.NoError(t, err)
	assert.False(t, ok)
}

// Every request in the JSON Logic table must get the same answer from CEL.
func TestEvaluateCEL_AgreesWithJSONLogic(t *testing.T) {
	docs := []string{
		sampleDocument,
		`<TriggerPoint>
  <ConditionTypeCNF>0</ConditionTypeCNF>
  <SPT><Group>3</Group><Method>MESSAGE</Method><Extension>ext</Extension></SPT>
  <SPT><ConditionNegated>1</ConditionNegated><Group>3</Group><SessionCase>2</SessionCase></SPT>
  <SPT><Group>1</Group><SIPHeader><Header>From</Header><Content>bob</Content></SIPHeader></SPT>
</TriggerPoint>`,
		`<TriggerPoint>
  <SPT><Group>0</Group><SIPHeader><Header>X.Trace</Header><Content>abc</Content></SIPHeader></SPT>
  <SPT><Group>0</Group><SIPHeader><Header>P-100%rel</Header><Content>yes</Content></SIPHeader></SPT>
  <SPT><Group>1</Group><SIPHeader><Header>x~tag!*_+`+"`"+`'</Header><Content>thing</Content></SIPHeader></SPT>
</TriggerPoint>`,
	}
	requests := []Request{
		{},
		{Method: "INVITE", SessionCase: sessionCase(0), RequestURI: "sip:test@example.com"},
		{Method: "INVITE", SessionCase: sessionCase(1), RequestURI: "sip:other@example.com"},
		{Method: "MESSAGE", Extension: "ext", SessionCase: sessionCase(2)},
		{Method: "MESSAGE", Extension: "ext", SessionCase: sessionCase(3)},
		{Method: "BYE", Headers: map[string]string{"From": "sip:bob@example.com"}},
		{Headers: map[string]string{"X.Trace": "abc", "P-100%rel": "yes"}},
		{Headers: map[string]string{"x.trace": "zabcz", "X~TAG!*_+`'": "anything"}},
		{Headers: map[string]string{"x%2etrace": "abc", "p-100%25rel": "yes"}},
		{Headers: map[string]string{"x": "abc", "trace": "abc"}},
	}

	for _, doc := range docs {
		tp := parse(t, doc)
		src, err := CompileCEL(tp, nil)
		require.NoError(t, err)

		for _, req := range requests {
			want, err := Evaluate(tp, nil, req)
			require.NoError(t, err)
			got, err := EvaluateCEL(src, req)
			require.NoError(t, err)
			assert.Equal(t, want, got, "src %s, request %+v", src, req)
		}
	}
}

func TestEvaluateCEL_Invalid(t *testing.T) {
	_, err := EvaluateCEL(`method ==`, Request{})
	require.ErrorIs(t, err, ErrInvalidExpression)

	_, err = EvaluateCEL(`method`, Request{})
	require.ErrorIs(t, err, ErrInvalidExpression)

	_, err = EvaluateCEL(`unknownVar == 1`, Request{})
	require.ErrorIs(t, err, ErrInvalidExpression)
}

func TestEngineByName(t *testing.T) {
	tp := parse(t, sampleDocument)
	req := Request{Method: "INVITE", SessionCase: sessionCase(0)}

	for _, name := range []string{"", EngineJSONLogic, EngineCEL} {
		engine, err := EngineByName(name)
		require.NoError(t, err)
		ok, err := engine.Evaluate(tp, nil, req)
		require.NoError(t, err)
		assert.True(t, ok, "engine %q", name)
	}

	_, err := EngineByName("lua")
	require.Error(t, err)
}
