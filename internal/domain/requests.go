package domain

// CreateRevisionRequest editor save payload. Type is normalized against the
// closed revision type set server-side; an invalid value becomes manual.
type CreateRevisionRequest struct {
	Type    string `json:"type"`
	Summary string `json:"summary"`
}

// AutosaveResponse signals the timer save path. Saved is false on a
// persistence failure; autosave callers must treat that as silent.
type AutosaveResponse struct {
	Saved      bool   `json:"saved"`
	RevisionID uint64 `json:"revision_id,omitempty"`
}

// RestoreResponse reports a restore outcome to the editor UI
type RestoreResponse struct {
	Restored bool `json:"restored"`
}

// PruneResponse reports a retention pass
type PruneResponse struct {
	Deleted int64 `json:"deleted"`
}
