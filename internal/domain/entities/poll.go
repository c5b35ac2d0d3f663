package entities

// PendingPoll tracks a quiz poll that has been sent and not yet revealed.
// Records live only in process memory; a restart drops them and any late
// answer or reveal for a dropped poll becomes a no-op.
type PendingPoll struct {
	ChatID    int64    // chat the poll was sent to
	MessageID int      // poll message id in that chat
	Question  Question // the question the poll was generated from
}
