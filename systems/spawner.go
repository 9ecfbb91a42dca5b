package systems

import (
	"crypto/rand"
	"log"

	"github.com/automoto/joy-ctrl/components"
	cfg "github.com/automoto/joy-ctrl/config"
	"github.com/automoto/joy-ctrl/systems/factory"
	"github.com/oklog/ulid/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var projectileEntropy = ulid.Monotonic(rand.Reader, 0)

// UpdateSpawner consumes the fire request raised by the input layer.
// Must run AFTER UpdateCameraRig so the projectile leaves from the new pose.
func UpdateSpawner(ecs *ecs.ECS) {
	components.Sticks.Each(ecs.World, func(e *donburi.Entry) {
		sticks := components.Sticks.Get(e)
		if !sticks.FireRequested {
			return
		}
		sticks.FireRequested = false
		Fire(ecs)
	})
}

// Fire spawns one projectile in front of the camera if the cooldown allows
// it and reports whether it did. Suppressed attempts are dropped.
func Fire(ecs *ecs.ECS) bool {
	spawnerEntry, ok := components.Spawner.First(ecs.World)
	if !ok {
		return false
	}
	cameraEntry, ok := components.Camera.First(ecs.World)
	if !ok {
		return false
	}
	spawner := components.Spawner.Get(spawnerEntry)
	if !spawner.CanFire {
		return false
	}

	clock := GetClock(ecs)
	camera := components.Camera.Get(cameraEntry)
	forward := camera.Forward()

	p := components.Projectile{
		ID:        ulid.MustNew(ulid.Now(), projectileEntropy),
		Position:  camera.Position.Add(forward.Mul(cfg.Spawner.SpawnDistance)),
		Velocity:  forward.Mul(cfg.Spawner.LaunchSpeed),
		SpawnTime: clock.Elapsed(),
	}
	spawner.Projectiles = append(spawner.Projectiles, p)
	total := len(spawner.Projectiles)

	spawner.CanFire = false
	clock.Clock.AfterFunc(spawner.Cooldown, func() {
		// The spawner may be gone by now, in which case there is nothing to reset.
		if spawnerEntry.Valid() {
			components.Spawner.Get(spawnerEntry).CanFire = true
		}
	})

	factory.CreateProjectile(ecs, p)
	log.Printf("[spawner] projectile %s at t=%.3f (%d total)", p.ID, p.SpawnTime, total)
	return true
}
