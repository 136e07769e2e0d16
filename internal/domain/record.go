// Package domain holds the persisted record types of the registry and their
// field-level invariants. Records are addressed by deterministic keys derived
// from a namespace plus the owning authority, which is what makes duplicate
// registration structurally impossible.
package domain

import (
	"fmt"

	dErrors "recrusearch/pkg/domain-errors"
)

// Authority identifies the external signing identity behind a caller or a
// record owner. Signature verification happens outside the core; by the time
// a transition runs, the authority is trusted to be the invoker.
type Authority string

func (a Authority) IsZero() bool { return a == "" }

// Namespace tags a record kind inside the key space.
type Namespace string

const (
	NamespaceAdmin           Namespace = "admin"
	NamespaceResearcher      Namespace = "researcher"
	NamespaceParticipant     Namespace = "participant"
	NamespaceStudy           Namespace = "study"
	NamespaceEnrollment      Namespace = "enrollment"
	NamespaceWallet          Namespace = "wallet"
	NamespaceConsentRegistry Namespace = "consent"
	NamespaceGrant           Namespace = "grant"
)

// singletonOwner is the fixed owner segment for records that exist exactly
// once (Admin, ConsentRegistry). Enforcing the singleton through the key
// derivation avoids any mutable global.
const singletonOwner = "singleton"

// RecordKey is the deterministic identifier of a record: at most one live
// record exists per (namespace, owner) pair.
type RecordKey struct {
	Namespace Namespace `json:"namespace"`
	Owner     string    `json:"owner"`
}

func (k RecordKey) String() string {
	return string(k.Namespace) + "/" + k.Owner
}

func (k RecordKey) IsZero() bool {
	return k.Namespace == "" && k.Owner == ""
}

// DeriveKey builds the record key for a namespace and owning authority.
func DeriveKey(ns Namespace, owner Authority) RecordKey {
	return RecordKey{Namespace: ns, Owner: string(owner)}
}

// AdminKey returns the fixed key of the Admin singleton.
func AdminKey() RecordKey {
	return RecordKey{Namespace: NamespaceAdmin, Owner: singletonOwner}
}

// ConsentRegistryKey returns the fixed key of the consent registry singleton.
func ConsentRegistryKey() RecordKey {
	return RecordKey{Namespace: NamespaceConsentRegistry, Owner: singletonOwner}
}

// EnrollmentKey derives the key of the participation relation between a study
// (addressed by its owning researcher) and a participant.
func EnrollmentKey(studyOwner, participant Authority) RecordKey {
	return RecordKey{
		Namespace: NamespaceEnrollment,
		Owner:     string(studyOwner) + ":" + string(participant),
	}
}

// GrantKey derives the key of a data-access grant from a participant to a
// researcher.
func GrantKey(participant, researcher Authority) RecordKey {
	return RecordKey{
		Namespace: NamespaceGrant,
		Owner:     string(participant) + ":" + string(researcher),
	}
}

// Record is the contract every persisted entity satisfies. Stores call
// Validate on create and commit so malformed state never becomes durable, and
// use the revision for optimistic concurrency: a commit carrying a stale
// revision is rejected.
type Record interface {
	Key() RecordKey
	Validate() error
	Revision() uint64
	SetRevision(rev uint64)
}

// Meta carries store bookkeeping shared by all records.
type Meta struct {
	Rev uint64 `json:"rev"`
}

func (m *Meta) Revision() uint64       { return m.Rev }
func (m *Meta) SetRevision(rev uint64) { m.Rev = rev }

// NewRecord returns an empty record of the kind persisted under ns. Stores
// use it to rehydrate serialized payloads into their concrete types.
func NewRecord(ns Namespace) (Record, error) {
	switch ns {
	case NamespaceAdmin:
		return &Admin{}, nil
	case NamespaceResearcher:
		return &Researcher{}, nil
	case NamespaceParticipant:
		return &Participant{}, nil
	case NamespaceStudy:
		return &Study{}, nil
	case NamespaceEnrollment:
		return &Enrollment{}, nil
	case NamespaceWallet:
		return &ParticipantWallet{}, nil
	case NamespaceConsentRegistry:
		return &ConsentRegistry{}, nil
	case NamespaceGrant:
		return &DataGrant{}, nil
	default:
		return nil, dErrors.Newf(dErrors.CodeInternal, "unknown record namespace %q", ns)
	}
}

func requireNonEmpty(field, value string) error {
	if value == "" {
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("%s must not be empty", field))
	}
	return nil
}
