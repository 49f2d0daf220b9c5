// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package prefs

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Saver writes snapshots in the background, one at a time.
//
// Every Enqueue bumps a generation counter. The single writer always takes
// the newest pending snapshot, so an older generation is never written after
// a newer one. A save that has started always runs to completion.
type Saver struct {
	store Store
	group *errgroup.Group

	mu         sync.Mutex
	pending    *Snapshot
	generation uint64 // last enqueued
	written    uint64 // last persisted
	failed     uint64 // last generation whose save failed
	lastErr    error
	changed    chan struct{}

	wake    chan struct{}
	closing chan struct{}
	once    sync.Once
}

// 🏗️ NewSaver starts the background writer for store
func NewSaver(ctx context.Context, store Store) *Saver {
	s := &Saver{
		store:   store,
		group:   &errgroup.Group{},
		changed: make(chan struct{}),
		wake:    make(chan struct{}, 1),
		closing: make(chan struct{}),
	}

	// queued saves outlive the caller's cancellation
	ctx = context.WithoutCancel(ctx)
	s.group.Go(func() error {
		return s.loop(ctx)
	})

	return s
}

// 📮 Enqueue schedules snap for saving and returns its generation. It never blocks.
func (s *Saver) Enqueue(snap *Snapshot) uint64 {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.pending = snap.Clone()
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}

	return gen
}

// Generation returns the last enqueued and last persisted generations
func (s *Saver) Generation() (enqueued, written uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation, s.written
}

// ⏳ Flush waits until everything enqueued so far is persisted
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	target := s.generation
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if s.written >= target {
			s.mu.Unlock()
			return nil
		}
		if s.failed >= target {
			err := s.lastErr
			s.mu.Unlock()
			return err
		}
		ch := s.changed
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return errors.Errorf("waiting for preferences save: %w", ctx.Err())
		}
	}
}

// 🛑 Close writes whatever is pending and stops the writer
func (s *Saver) Close() error {
	s.once.Do(func() {
		close(s.closing)
	})
	return s.group.Wait()
}

func (s *Saver) loop(ctx context.Context) error {
	for {
		select {
		case <-s.wake:
			s.writePending(ctx)
		case <-s.closing:
			s.writePending(ctx)
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.failed > s.written {
				return s.lastErr
			}
			return nil
		}
	}
}

func (s *Saver) writePending(ctx context.Context) {
	s.mu.Lock()
	snap, gen := s.pending, s.generation
	s.pending = nil
	s.mu.Unlock()

	if snap == nil {
		return
	}

	err := s.store.Save(ctx, snap)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Uint64("generation", gen).Msg("saving preferences")
		s.failed = gen
		s.lastErr = errors.Errorf("saving preferences generation %d: %w", gen, err)
	} else if gen > s.written {
		s.written = gen
	}

	close(s.changed)
	s.changed = make(chan struct{})
}
