package render

import (
	"fmt"
	"strings"

	"github.com/TimurManjosov/tpformat/internal/trigger"
)

var sessionCaseNames = map[trigger.SessionCase]string{
	trigger.SessionOriginated:             "mobile originated",
	trigger.SessionTerminated:             "mobile terminated",
	trigger.SessionOriginatedUnregistered: "mobile originated unregistered",
	trigger.SessionTerminatedUnregistered: "mobile terminated unregistered",
}

// DescribeSessionCase returns the English name of a session case, or
// "session case <n>" for codes outside the schema.
func DescribeSessionCase(sc trigger.SessionCase) string {
	if name, ok := sessionCaseNames[sc]; ok {
		return name
	}
	return fmt.Sprintf("session case %d", sc)
}

// Clauses lists the attribute clauses of an SPT in fixed precedence order:
// method, session case, extension, request URI, SIP header.
// An empty extension contributes nothing.
func Clauses(spt trigger.SPT) []string {
	var clauses []string
	if spt.Method != nil {
		clauses = append(clauses, "method is "+*spt.Method)
	}
	if spt.SessionCase != nil {
		clauses = append(clauses, "session case is "+DescribeSessionCase(*spt.SessionCase))
	}
	if spt.Extension != nil && *spt.Extension != "" {
		clauses = append(clauses, "extension is "+*spt.Extension)
	}
	if spt.RequestURI != nil {
		clauses = append(clauses, "request URI is "+*spt.RequestURI)
	}
	if spt.SIPHeader != nil {
		clauses = append(clauses, fmt.Sprintf(`"%s" header with "%s" value`, spt.SIPHeader.Header, spt.SIPHeader.Content))
	}
	return clauses
}

// Phrase renders one SPT as English. Clauses are joined with " and " and the
// whole phrase is wrapped in "not (...)" when the SPT is negated.
func Phrase(spt trigger.SPT) string {
	text := strings.Join(Clauses(spt), " and ")
	if spt.IsNegated() {
		return "not (" + text + ")"
	}
	return text
}
