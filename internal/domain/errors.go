package domain

import "errors"

var (
	ErrModelNotFound     = errors.New("model not found")
	ErrModelNameConflict = errors.New("model with this name already exists")
	ErrVersionNotFound   = errors.New("model version not found")
	ErrVersionConflict   = errors.New("this version already exists for this model")
	ErrArtifactNotFound  = errors.New("model artifact not found")
	ErrInvalidModelName  = errors.New("model name is required")
	ErrInvalidVersion    = errors.New("version must be a semantic version")
	ErrCannotDeleteModel = errors.New("cannot delete model: must be archived with no READY versions")
)
