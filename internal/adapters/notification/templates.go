package notification

import (
	"fmt"
	"html"
)

const (
	SuccessSubject = "SMP Forex Daily Job Success"
	FailureSubject = "SMP Forex Job Failed"
)

// SuccessBody is the HTML summary of a completed run.
func SuccessBody(processed int) string {
	return "<h2>SMP Forex Job</h2><p>Hi Team,<br/><br/>SMP Forex Daily Job run Successfully.<br/><br/>" +
		fmt.Sprintf("Total %d exchange rates processed.", processed) +
		"<br/><br/>Thank you<br/></p>"
}

// FailureBody is the HTML failure report. The message is HTML-escaped.
func FailureBody(message string) string {
	return "<h2>SMP Forex Job</h2><p>Hi Team,<br/><br/>SMP Forex Daily Job failed.<br/><br/></p>" +
		fmt.Sprintf("<p>Error details: %s</p>", html.EscapeString(message)) +
		"<p>Please investigate the issue.<br/><br/>Thank you<br/> </p>"
}
