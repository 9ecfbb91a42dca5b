package components

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oklog/ulid/v2"
	"github.com/yohamta/donburi"
)

// Projectile is the spawn record of one projectile.
type Projectile struct {
	ID        ulid.ULID
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	SpawnTime float64 // seconds of simulation time
}

// SpawnerData is the projectile rate limiter plus the append-only log of
// everything it has spawned. Entries are never removed.
type SpawnerData struct {
	CanFire     bool
	Cooldown    time.Duration
	Projectiles []Projectile
}

var Spawner = donburi.NewComponentType[SpawnerData]()

// ProjectileData marks a spawned projectile entity.
type ProjectileData struct {
	ID ulid.ULID
}

var ProjectileRef = donburi.NewComponentType[ProjectileData]()
