package domain

// domain package contains the Domain Models and Interfaces for the todofab application.
//
// `domain/todofab` package exposes root object for the todofab application.
// Entrypoints of applications should instantiate the Todofab object and use it to interact with the domain.
//
// `domain/ENTITY.go` has high-level entities (Domain Model types) and functions.
// For example, `domain/task.go` contains the `Task` entity.
//
// `domain/ENTITY` directory contains the "physical" representation of the domain entities in RDB.
// For example, `domain/task/db` contains the database interface of the task entity described in `domain/task.go`,
// and `domain/task/db/postgres` implements it with PostgreSQL.
//
// `domain/ENTITY/interface.go` exposes the client interface to handle the domain entity.
//
// # Entities
//
// - `user`: An account. Every other entity belongs to exactly one user.
//
// - `token`: Refresh tokens issued on login. They are rotated on each refresh:
// the presented token is revoked and linked to its successor.
//
// - `task`: A todo item. Deleting a task archives it by default; archived tasks can be restored or removed permanently.
//
// - `goal`: Monthly goal. While a goal is active, it materializes one task for each day it is due
// (occur in "goal-generation loop"), and its statistics are recomputed from these tasks
// (occur in "goal-stats loop").
//
// - `loop`: Manages recurring tasks. This defines constants for each loop.
// Implementation of the loop is in `pkg/jobs` directory.
//
// - `schema`: Version of the database schema.
