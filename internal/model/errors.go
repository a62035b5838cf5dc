package model

import "errors"

var (
	ErrCommunityNotFound = errors.New("community not found")
	ErrProposalNotFound  = errors.New("proposal not found")
)
