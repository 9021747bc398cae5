package mcmc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// GIVEN two PartitionedRNGs with the same key
	a := NewPartitionedRNG(NewRunKey(42))
	b := NewPartitionedRNG(NewRunKey(42))

	// THEN the same subsystem yields the same sequence
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.ForSubsystem(SubsystemChain(3)).Float64(), b.ForSubsystem(SubsystemChain(3)).Float64())
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// GIVEN one PartitionedRNG that draws from chain 0 before chain 1
	busy := NewPartitionedRNG(NewRunKey(7))
	for i := 0; i < 100; i++ {
		busy.ForSubsystem(SubsystemChain(0)).Float64()
	}
	fresh := NewPartitionedRNG(NewRunKey(7))

	// THEN chain 1 is unaffected
	assert.Equal(t, fresh.ForSubsystem(SubsystemChain(1)).Int63(), busy.ForSubsystem(SubsystemChain(1)).Int63())
}

func TestPartitionedRNG_Caching(t *testing.T) {
	p := NewPartitionedRNG(NewRunKey(1))
	assert.Same(t, p.ForSubsystem("x"), p.ForSubsystem("x"))
	assert.NotSame(t, p.ForSubsystem(SubsystemChain(0)), p.ForSubsystem(SubsystemChain(1)))
	assert.Equal(t, RunKey(1), p.Key())
}

func TestPartitionedRNG_DataUsesMasterSeed(t *testing.T) {
	p := NewPartitionedRNG(NewRunKey(99))
	want := rand.New(rand.NewSource(99)).Float64()
	assert.Equal(t, want, p.ForData().Float64())
	assert.Same(t, p.ForData(), p.ForSubsystem(SubsystemData))
}

func TestPartitionedRNG_ChainsDiffer(t *testing.T) {
	p := NewPartitionedRNG(NewRunKey(99))
	seen := make(map[int64]int)
	for i := 0; i < 16; i++ {
		v := p.ForSubsystem(SubsystemChain(i)).Int63()
		if prev, ok := seen[v]; ok {
			t.Errorf("chains %d and %d produced the same first draw", prev, i)
		}
		seen[v] = i
	}
}

func TestSubsystemChain(t *testing.T) {
	assert.Equal(t, "chain_0", SubsystemChain(0))
	assert.Equal(t, "chain_12", SubsystemChain(12))
}

func TestPartitionedRNG_ForChains(t *testing.T) {
	// GIVEN streams derived one at a time and as a batch
	p := NewPartitionedRNG(NewRunKey(5))
	rngs := p.ForChains(3)

	// THEN they are the same per-chain streams
	assert.Len(t, rngs, 3)
	for i, rng := range rngs {
		assert.Same(t, p.ForChain(i), rng)
		assert.Same(t, p.ForSubsystem(SubsystemChain(i)), rng)
	}
	assert.Empty(t, p.ForChains(0))
}
