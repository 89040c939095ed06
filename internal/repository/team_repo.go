package repository

import "context"

// Team is the stored representation of a team record.
type Team struct {
	ID          string `db:"id" json:"objectId,omitempty"`
	Name        string `db:"name" json:"name"`
	Founded     string `db:"founded" json:"founded"`
	Logo        string `db:"logo" json:"logo"`
	Description string `db:"description" json:"description"`
}

// TeamRepository is the contract every team store satisfies.
type TeamRepository interface {
	// FindAll returns every team record.
	FindAll(ctx context.Context) ([]*Team, error)
	Get(ctx context.Context, id string) (*Team, error)
	// Save inserts the team when team.ID is empty and updates it otherwise.
	// The returned team carries at least the identifier; other fields are set
	// only when the store echoes them back.
	Save(ctx context.Context, team *Team) (*Team, error)
	Destroy(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
