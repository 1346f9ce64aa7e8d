// Package triage is a support-ticket triage copilot.
//
// Open builds a Copilot over a storage directory. It classifies tickets
// by topic, sentiment and priority, with a hosted model when a credential
// is configured and keyword rules otherwise, and answers them from canned
// replies or the nearest knowledge-base documents.
//
//	c, err := triage.Open("triage_db")
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//	reply := c.Answer(ctx, "How do I configure Okta SSO?")
package triage
