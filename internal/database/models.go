package database

// Digest represents one archived digest run.
type Digest struct {
	ID           int64
	RunDate      string
	BodyMarkdown string
	ItemCount    int
	Delivered    bool
	GeneratedAt  *string
}

// DigestItem is one ranked story stored with a digest.
type DigestItem struct {
	ID          int64
	DigestID    int64
	Position    int
	Title       string
	URL         *string
	Source      *string
	Summary     *string
	KeyChanges  []string
	RuleScore   int
	AIScore     int
	FinalScore  float64
	PublishDate *string
}
