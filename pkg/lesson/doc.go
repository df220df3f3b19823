// Package lesson defines the content domain model: lessons, tasks, input
// descriptors, effects and the response payloads a grading service returns.
//
// The types form a closed vocabulary. Every tag (modality, response kind,
// side-effect kind) is validated when a catalog or descriptor is parsed, so
// an unknown tag surfaces as a ContentError at load time instead of a
// runtime dispatch failure deep inside the engine.
package lesson
