// Package keys реализует детерминированную адресацию сущностей.
// Адрес выводится из тега пространства имён и последовательности
// идентификаторов, поэтому любой участник вычисляет его без справочника.
package keys

import (
	"encoding/binary"
	"hash"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Теги пространств имён.
const (
	TagUserProfile = "user-profile"
	TagListing     = "listing"
	TagEscrow      = "escrow"
	TagEscrowVault = "escrow-vault"
	TagDispute     = "dispute"
)

// Derive вычисляет стабильный ключ: BLAKE2b-256 от тега и частей,
// каждая часть кодируется с префиксом длины, чтобы конкатенация разных
// наборов частей не давала коллизий. Первые 16 байт дайджеста становятся
// UUID (версия 8 — кастомная).
func Derive(tag string, parts ...[]byte) uuid.UUID {
	h, err := blake2b.New256(nil)
	if err != nil {
		// New256 без ключа не возвращает ошибку.
		panic(err)
	}

	writePart(h, []byte(tag))
	for _, part := range parts {
		writePart(h, part)
	}

	sum := h.Sum(nil)

	var b [16]byte
	copy(b[:], sum[:16])
	b[6] = (b[6] & 0x0f) | 0x80 // версия 8
	b[8] = (b[8] & 0x3f) | 0x80 // вариант RFC 4122

	return uuid.UUID(b)
}

func writePart(h hash.Hash, part []byte) {
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(part)))
	_, _ = h.Write(lenBuf[:n])
	_, _ = h.Write(part)
}

// UserProfileKey — ключ профиля по идентичности владельца.
func UserProfileKey(ownerID uuid.UUID) uuid.UUID {
	return Derive(TagUserProfile, ownerID[:])
}

// ListingKey — ключ объявления по фрилансеру и строковому ID.
func ListingKey(freelancerID uuid.UUID, listingID string) uuid.UUID {
	return Derive(TagListing, freelancerID[:], []byte(listingID))
}

// EscrowKey — ключ сделки по паре участников и ID заказа.
func EscrowKey(clientID, freelancerID uuid.UUID, orderID string) uuid.UUID {
	return Derive(TagEscrow, clientID[:], freelancerID[:], []byte(orderID))
}

// VaultKey — ключ хранилища, привязанного к сделке.
func VaultKey(escrowKey uuid.UUID) uuid.UUID {
	return Derive(TagEscrowVault, escrowKey[:])
}

// DisputeKey — ключ спора, привязанного к сделке.
func DisputeKey(escrowKey uuid.UUID) uuid.UUID {
	return Derive(TagDispute, escrowKey[:])
}
