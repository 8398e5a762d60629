package vault

import (
	"context"
	"fmt"

	"github.com/hearthlabs/hearthcore/internal/common"
	"github.com/hearthlabs/hearthcore/internal/cryptox"
	"github.com/hearthlabs/hearthcore/internal/logging"
)

// Service is the vault store: it derives the owner's key, seals and
// opens record payloads, and delegates persistence to a Repository.
// Stateless and safe for concurrent use.
type Service struct {
	repo   Repository
	salt   []byte
	logger logging.Logger
}

// NewService builds a vault service over repo using the process-wide
// vault salt for key derivation.
func NewService(repo Repository, salt []byte, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		salt:   salt,
		logger: logger.With("module", "vault"),
	}
}

// Put encrypts plaintext under userID's derived key and stores it,
// replacing any prior record at the same address. The encrypted blob
// is fully assembled in memory before the repository write, so a
// cancelled call never leaves a partial record behind.
func (s *Service) Put(ctx context.Context, userID, collection, recordID string, plaintext []byte) error {
	if err := checkAddress(userID, collection, recordID); err != nil {
		return err
	}

	key, err := cryptox.DeriveUserKey(userID, s.salt)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	ciphertext, nonce, err := cryptox.Encrypt(plaintext, key, recordAAD(userID, collection, recordID))
	if err != nil {
		return fmt.Errorf("sealing record: %w", err)
	}

	return s.repo.Put(ctx, &Record{
		UserID:     userID,
		Collection: collection,
		RecordID:   recordID,
		Ciphertext: ciphertext,
		Nonce:      nonce,
	})
}

// Get fetches and decrypts a record. Returns common.ErrNotFound if no
// record exists, or common.ErrDecryptionFailed on any authentication
// failure, with no distinction between wrong key, tampering, and
// corruption.
func (s *Service) Get(ctx context.Context, userID, collection, recordID string) ([]byte, error) {
	if err := checkAddress(userID, collection, recordID); err != nil {
		return nil, err
	}

	r, err := s.repo.Get(ctx, userID, collection, recordID)
	if err != nil {
		return nil, err
	}

	key, err := cryptox.DeriveUserKey(userID, s.salt)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	return cryptox.Decrypt(r.Ciphertext, r.Nonce, key, recordAAD(userID, collection, recordID))
}

// Delete removes a record. Idempotent: deleting a missing record
// succeeds.
func (s *Service) Delete(ctx context.Context, userID, collection, recordID string) error {
	if err := checkAddress(userID, collection, recordID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, collection, recordID)
}

// List returns the record IDs in a user's collection.
func (s *Service) List(ctx context.Context, userID, collection string) ([]string, error) {
	if userID == "" || collection == "" {
		return nil, fmt.Errorf("user id and collection are required: %w", common.ErrMalformed)
	}
	return s.repo.List(ctx, userID, collection)
}

// recordAAD binds a ciphertext to its address. Moving a sealed blob to
// another user, collection, or record ID fails authentication even
// under the right key.
func recordAAD(userID, collection, recordID string) []byte {
	return []byte(userID + "/" + collection + "/" + recordID)
}

func checkAddress(userID, collection, recordID string) error {
	if userID == "" || collection == "" || recordID == "" {
		return fmt.Errorf("user id, collection, and record id are required: %w", common.ErrMalformed)
	}
	return nil
}
