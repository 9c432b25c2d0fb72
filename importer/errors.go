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

package importer

import "errors"

var (
	// ErrInterrupted is returned when the context is cancelled while waiting on a task batch.
	ErrInterrupted = errors.New("import interrupted")

	// ErrProfileRequired is returned when a loading profile is not provided.
	ErrProfileRequired = errors.New("loading profile required")

	// ErrFactoryRequired is returned when a component factory is not provided.
	ErrFactoryRequired = errors.New("component factory required")

	// ErrConceptLoad is returned when a concept file cannot be read. Every
	// later phase depends on concept records, so this aborts the import.
	ErrConceptLoad = errors.New("concept load failed")

	// ErrTaskPanic is reported in a TaskResult when a task panicked.
	ErrTaskPanic = errors.New("task panicked")
)
