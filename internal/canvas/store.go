package canvas

import "context"

// CatalogEntry is one result from a monster or trap catalog search.
type CatalogEntry struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Size  SizeClass `json:"size,omitempty"`
	DC    int       `json:"dc,omitempty"`
	Notes string    `json:"notes,omitempty"`
}

// Store is the persistence collaborator. Every mutating call returns
// the canonical record, which the canvas upserts into its registry;
// the canvas never assumes its optimistic state was correct. List
// calls are the recovery path after a failed mutation.
type Store interface {
	Map(ctx context.Context, id string) (MapInfo, error)

	ListTokens(ctx context.Context, mapID string) ([]*Token, error)
	CreateToken(ctx context.Context, t *Token) (*Token, error)
	// MoveToken persists a token's position as grid coordinates.
	MoveToken(ctx context.Context, id string, col, row int) (*Token, error)
	UpdateToken(ctx context.Context, t *Token) (*Token, error)
	ToggleTokenVisibility(ctx context.Context, id string) (*Token, error)
	DeleteToken(ctx context.Context, id string) error
	// EnsureRosterEntry creates or increments the module roster record
	// for a catalog creature. Idempotent on the backend.
	EnsureRosterEntry(ctx context.Context, mapID, creatureID string) error

	ListLights(ctx context.Context, mapID string) ([]*LightSource, error)
	CreateLight(ctx context.Context, l *LightSource) (*LightSource, error)
	// MoveLight persists continuous pixel coordinates; lights never
	// snap.
	MoveLight(ctx context.Context, id string, x, y float64) (*LightSource, error)
	UpdateLight(ctx context.Context, l *LightSource) (*LightSource, error)
	DeleteLight(ctx context.Context, id string) error

	ListTraps(ctx context.Context, mapID string) ([]*Trap, error)
	CreateTrap(ctx context.Context, t *Trap) (*Trap, error)
	MoveTrap(ctx context.Context, id string, col, row int) (*Trap, error)
	UpdateTrap(ctx context.Context, t *Trap) (*Trap, error)
	DeleteTrap(ctx context.Context, id string) error

	ListPois(ctx context.Context, mapID string) ([]*PointOfInterest, error)
	CreatePoi(ctx context.Context, p *PointOfInterest) (*PointOfInterest, error)
	MovePoi(ctx context.Context, id string, col, row int) (*PointOfInterest, error)
	UpdatePoi(ctx context.Context, p *PointOfInterest) (*PointOfInterest, error)
	DeletePoi(ctx context.Context, id string) error

	SearchCreatures(ctx context.Context, query string) ([]CatalogEntry, error)
	SearchTraps(ctx context.Context, query string) ([]CatalogEntry, error)
}
