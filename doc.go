/*
Package sensei is an interactive terminal tutor. Lessons are ordered
sequences of tasks; the practice engine fetches each task's description
from a lesson service, solicits input in the task's modality, submits it
for grading and applies the resulting effects until the lesson completes.

The service can live in-process (backed by a YAML catalog), behind the
bundled HTTP reference server, or anywhere else that implements the
ports.LessonService interface. Content reloads on the service side abort
running sessions rather than serving them stale tasks.

The Tutor type is the embedding surface; the sensei command wraps it for
the terminal.
*/
package sensei
