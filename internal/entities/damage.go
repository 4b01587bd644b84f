package entities

import (
	"sideworld/internal/engine"
	"sideworld/internal/mathx"
)

// Damageable is implemented by every entity a projectile may hurt.
type Damageable interface {
	engine.Entity
	Health() float64
	TakeDamage(amount float64)
}

// Health is a hit point pool clamped to [0, max]. It reports death exactly
// once, no matter how much damage arrives afterwards.
type Health struct {
	value   float64
	max     float64
	dead    bool
	onDeath func()
}

// NewHealth returns a full pool. onDeath may be nil.
func NewHealth(max float64, onDeath func()) *Health {
	if max < 0 {
		max = 0
	}
	return &Health{value: max, max: max, dead: max == 0, onDeath: onDeath}
}

func (h *Health) Value() float64 { return h.value }

func (h *Health) Max() float64 { return h.max }

func (h *Health) Dead() bool { return h.value <= 0 }

// TakeDamage subtracts amount, never going below zero. It returns true only
// for the call that emptied the pool.
func (h *Health) TakeDamage(amount float64) bool {
	if amount <= 0 || h.dead {
		return false
	}
	h.value = mathx.Clamp(h.value-amount, 0, h.max)
	if h.value > 0 {
		return false
	}
	h.dead = true
	if h.onDeath != nil {
		h.onDeath()
	}
	return true
}

// Heal restores up to max. The dead stay dead.
func (h *Health) Heal(amount float64) {
	if amount <= 0 || h.dead {
		return
	}
	h.value = mathx.Clamp(h.value+amount, 0, h.max)
}
