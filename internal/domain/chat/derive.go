package chat

// deriveThread fills the derived fields of t from its message log.
func deriveThread(t Thread, msgs []Message) Thread {
	t.UnreadCount = 0
	t.LastActivity = t.CreatedAt
	for _, msg := range msgs {
		if !msg.Read && msg.Sender.IsAgent {
			t.UnreadCount++
		}
	}
	if n := len(msgs); n > 0 {
		t.LastActivity = msgs[n-1].Timestamp
	}
	return t
}
