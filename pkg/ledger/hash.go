package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"meridian-hq/lexgate/pkg/decision"
)

// ComputeRecordHash computes the chain hash for a record: the SHA-256 of the
// record's canonical body bytes concatenated with the raw bytes of the
// previous record's hash. The record's own RecordHash field is excluded from
// the body. The first record in a chain uses an empty previous hash.
func ComputeRecordHash(record *AuditRecord) (string, error) {
	body, err := canonicalize(recordBody(record))
	if err != nil {
		return "", fmt.Errorf("canonicalize record %s: %w", record.ID, err)
	}

	h := sha256.New()
	h.Write(body)
	if record.PreviousHash != "" {
		prev, err := hex.DecodeString(record.PreviousHash)
		if err != nil {
			return "", fmt.Errorf("decode previous hash of record %s: %w", record.ID, err)
		}
		h.Write(prev)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyRecordHash recomputes a record's hash and compares it against the
// stored one.
func VerifyRecordHash(record *AuditRecord) (bool, error) {
	computed, err := ComputeRecordHash(record)
	if err != nil {
		return false, err
	}
	return computed == record.RecordHash, nil
}

// recordBody builds the canonical body map for hashing. Every field except
// RecordHash participates, so mutating any stored field invalidates the hash.
func recordBody(record *AuditRecord) map[string]any {
	body := map[string]any{
		"id":         record.ID,
		"seq":        record.Seq,
		"timestamp":  record.Timestamp.UTC().Format(time.RFC3339Nano),
		"event_type": string(record.EventType),
		"actor":      actorBody(record.Actor),
		"result":     resultBody(&record.Result),
	}
	if record.StatuteID != "" {
		body["statute_id"] = record.StatuteID
	}
	if record.SubjectID != "" {
		body["subject_id"] = record.SubjectID
	}
	if len(record.Context) > 0 {
		body["context"] = record.Context
	}
	if record.PreviousHash != "" {
		body["previous_hash"] = record.PreviousHash
	}
	return body
}

func actorBody(actor decision.Actor) map[string]any {
	body := map[string]any{
		"type": string(actor.Type),
	}
	if actor.Component != "" {
		body["component"] = actor.Component
	}
	if actor.UserID != "" {
		body["user_id"] = actor.UserID
	}
	if actor.Role != "" {
		body["role"] = actor.Role
	}
	if actor.SystemID != "" {
		body["system_id"] = actor.SystemID
	}
	return body
}

func resultBody(result *decision.Result) map[string]any {
	body := map[string]any{
		"kind": string(result.Kind),
	}
	if result.EffectApplied != "" {
		body["effect_applied"] = result.EffectApplied
	}
	if len(result.Parameters) > 0 {
		body["parameters"] = result.Parameters
	}
	if result.Issue != "" {
		body["issue"] = result.Issue
	}
	if result.NarrativeHint != "" {
		body["narrative_hint"] = result.NarrativeHint
	}
	if result.AssignedTo != "" {
		body["assigned_to"] = result.AssignedTo
	}
	if result.Reason != "" {
		body["reason"] = result.Reason
	}
	if result.Justification != "" {
		body["justification"] = result.Justification
	}
	if result.Original != nil {
		body["original"] = resultBody(result.Original)
	}
	if result.New != nil {
		body["new"] = resultBody(result.New)
	}
	return body
}
