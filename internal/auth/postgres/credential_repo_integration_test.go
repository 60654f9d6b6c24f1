// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/librarium/librarium/internal/auth"
	"github.com/librarium/librarium/internal/auth/postgres"
)

func newStoredCredential(ctx context.Context, repo *postgres.CredentialRepository, email string) *auth.Credential {
	cred, err := auth.NewCredential("Alice", email, "$2a$12$hash")
	Expect(err).NotTo(HaveOccurred())
	now := time.Now().UTC().Truncate(time.Microsecond)
	cred.CreatedAt, cred.UpdatedAt = now, now
	Expect(repo.Create(ctx, cred)).To(Succeed())
	return cred
}

var _ = Describe("CredentialRepository", func() {
	var (
		ctx  context.Context
		repo *postgres.CredentialRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		truncateCredentials(ctx)
		repo = postgres.NewCredentialRepository(pool)
	})

	Describe("Create", func() {
		It("round-trips a credential", func() {
			cred := newStoredCredential(ctx, repo, "alice@gmail.com")

			stored, err := repo.GetByID(ctx, cred.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Email).To(Equal("alice@gmail.com"))
			Expect(stored.Role).To(Equal(auth.RoleUser))
			Expect(stored.IsActive).To(BeTrue())
			Expect(stored.ResetTokenHash).To(BeNil())
		})

		It("rejects a duplicate address regardless of case", func() {
			newStoredCredential(ctx, repo, "alice@gmail.com")

			dup, err := auth.NewCredential("Other", "ALICE@gmail.com", "$2a$12$hash")
			Expect(err).NotTo(HaveOccurred())
			err = repo.Create(ctx, dup)
			Expect(err).To(MatchError(auth.ErrEmailTaken))
		})

		It("frees the address after deactivation", func() {
			cred := newStoredCredential(ctx, repo, "alice@gmail.com")
			Expect(repo.Deactivate(ctx, cred.ID)).To(Succeed())

			newStoredCredential(ctx, repo, "alice@gmail.com")
		})
	})

	Describe("reset tokens", func() {
		It("stores, finds and redeems a token once", func() {
			cred := newStoredCredential(ctx, repo, "alice@gmail.com")
			expires := time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond)
			Expect(repo.SetResetToken(ctx, cred.ID, "hash-1", expires)).To(Succeed())

			found, err := repo.GetByResetTokenHash(ctx, "hash-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(cred.ID))
			Expect(*found.ResetTokenExpiresAt).To(BeTemporally("==", expires))

			Expect(repo.RedeemResetToken(ctx, cred.ID, "hash-1", "$2a$12$new", time.Now())).To(Succeed())
			Expect(repo.RedeemResetToken(ctx, cred.ID, "hash-1", "$2a$12$other", time.Now())).
				To(MatchError(auth.ErrNotFound))

			stored, err := repo.GetByID(ctx, cred.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.PasswordHash).To(Equal("$2a$12$new"))
			Expect(stored.ResetTokenHash).To(BeNil())
		})

		It("refuses a token that lapsed before redemption", func() {
			cred := newStoredCredential(ctx, repo, "alice@gmail.com")
			expires := time.Now().Add(time.Minute).UTC().Truncate(time.Microsecond)
			Expect(repo.SetResetToken(ctx, cred.ID, "hash-1", expires)).To(Succeed())

			Expect(repo.RedeemResetToken(ctx, cred.ID, "hash-1", "$2a$12$new", expires)).
				To(MatchError(auth.ErrNotFound))
			Expect(repo.RedeemResetToken(ctx, cred.ID, "hash-1", "$2a$12$new", expires.Add(time.Second))).
				To(MatchError(auth.ErrNotFound))

			stored, err := repo.GetByID(ctx, cred.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.PasswordHash).NotTo(Equal("$2a$12$new"))
			Expect(stored.ResetTokenHash).NotTo(BeNil())
		})

		It("replaces an outstanding token", func() {
			cred := newStoredCredential(ctx, repo, "alice@gmail.com")
			expires := time.Now().Add(time.Hour)
			Expect(repo.SetResetToken(ctx, cred.ID, "hash-1", expires)).To(Succeed())
			Expect(repo.SetResetToken(ctx, cred.ID, "hash-2", expires)).To(Succeed())

			_, err := repo.GetByResetTokenHash(ctx, "hash-1")
			Expect(err).To(MatchError(auth.ErrNotFound))
		})

		It("lets exactly one concurrent redemption win", func() {
			cred := newStoredCredential(ctx, repo, "alice@gmail.com")
			Expect(repo.SetResetToken(ctx, cred.ID, "hash-1", time.Now().Add(time.Hour))).To(Succeed())

			var (
				wg   sync.WaitGroup
				mu   sync.Mutex
				wins int
			)
			for range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					if repo.RedeemResetToken(ctx, cred.ID, "hash-1", "$2a$12$new", time.Now()) == nil {
						mu.Lock()
						wins++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			Expect(wins).To(Equal(1))
		})
	})

	Describe("Deactivate", func() {
		It("hides the credential and clears its token", func() {
			cred := newStoredCredential(ctx, repo, "alice@gmail.com")
			Expect(repo.SetResetToken(ctx, cred.ID, "hash-1", time.Now().Add(time.Hour))).To(Succeed())
			Expect(repo.Deactivate(ctx, cred.ID)).To(Succeed())

			_, err := repo.GetByEmail(ctx, "alice@gmail.com")
			Expect(err).To(MatchError(auth.ErrNotFound))
			_, err = repo.GetByResetTokenHash(ctx, "hash-1")
			Expect(err).To(MatchError(auth.ErrNotFound))
			Expect(repo.Deactivate(ctx, cred.ID)).To(MatchError(auth.ErrNotFound))
		})
	})
})

var _ = Describe("AttemptTracker", func() {
	var (
		ctx     context.Context
		repo    *postgres.CredentialRepository
		now     time.Time
		tracker *postgres.AttemptTracker
	)

	BeforeEach(func() {
		ctx = context.Background()
		truncateCredentials(ctx)
		repo = postgres.NewCredentialRepository(pool)
		now = time.Now().UTC().Truncate(time.Microsecond)
		tracker = postgres.NewAttemptTracker(pool, func() time.Time { return now })
	})

	It("never lets concurrent requests exceed the limit", func() {
		newStoredCredential(ctx, repo, "alice@gmail.com")

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			allowed int
		)
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				decision, err := tracker.RecordAttempt(ctx, "alice@gmail.com")
				Expect(err).NotTo(HaveOccurred())
				if decision.Allowed {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		Expect(allowed).To(Equal(auth.ResetAttemptLimit))

		decision, err := tracker.CanRequest(ctx, "alice@gmail.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Allowed).To(BeFalse())
		Expect(decision.RetryAfter).To(Equal(time.Hour))
	})

	It("starts a new window after an hour", func() {
		newStoredCredential(ctx, repo, "alice@gmail.com")
		for range auth.ResetAttemptLimit {
			_, err := tracker.RecordAttempt(ctx, "alice@gmail.com")
			Expect(err).NotTo(HaveOccurred())
		}

		now = now.Add(time.Hour)
		decision, err := tracker.CanRequest(ctx, "alice@gmail.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Allowed).To(BeTrue())

		decision, err = tracker.RecordAttempt(ctx, "alice@gmail.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Count).To(Equal(1))
	})
})
