package game

// Config holds the playfield geometry and gameplay rules.
type Config struct {
	Width  float64
	Height float64

	PlayerWidth     float64
	PlayerHeight    float64
	PlayerBottomGap float64 // distance from the bottom edge to the player's top
	Smoothing       float64 // exponential smoothing factor for the player x

	ProjectileSize  float64
	ProjectileSpeed float64

	EnemyWidth       float64
	EnemyHeight      float64
	EnemySpeed       float64
	EnemySpawnMargin float64 // minimum distance of a new enemy from the left edge
	EnemySpawnRight  float64 // minimum gap between a new enemy and the right edge
	SpawnChance      int     // one spawn on average every SpawnChance ticks

	Lives           int
	InvincibleTicks int
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		Width:            600,
		Height:           800,
		PlayerWidth:      60,
		PlayerHeight:     40,
		PlayerBottomGap:  80,
		Smoothing:        0.08,
		ProjectileSize:   10,
		ProjectileSpeed:  10,
		EnemyWidth:       50,
		EnemyHeight:      40,
		EnemySpeed:       5,
		EnemySpawnMargin: 20,
		EnemySpawnRight:  10,
		SpawnChance:      40,
		Lives:            3,
		InvincibleTicks:  60,
	}
}

// MaxPlayerX returns the rightmost valid player x.
func (c Config) MaxPlayerX() float64 {
	return c.Width - c.PlayerWidth
}
