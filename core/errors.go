// Copyright 2025 Poiesic Systems
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


package core

import "errors"

var (
	// ErrUninitialized indicates an operation ran before the roster or index was built.
	ErrUninitialized = errors.New("roster not initialized")

	// ErrNotFound indicates the roster source does not exist.
	ErrNotFound = errors.New("roster not found")

	// ErrMalformed indicates the roster source could not be parsed or failed validation.
	ErrMalformed = errors.New("roster malformed")

	// ErrGeneratorUnavailable indicates the external text generator could not produce an answer.
	// It is always recovered locally and never returned to callers of the engine.
	ErrGeneratorUnavailable = errors.New("generator unavailable")

	// ErrInvalidProfile indicates a Profile failed validation.
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrDuplicateID indicates two profiles share the same ID.
	ErrDuplicateID = errors.New("duplicate profile id")

	// ErrNegativeExperience indicates ExperienceYears is below zero.
	ErrNegativeExperience = errors.New("experience years cannot be negative")
)
