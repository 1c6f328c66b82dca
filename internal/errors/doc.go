// Package errors provides the structured error type shared by every layer of
// rpg-roller.
//
// Errors carry a Code, a user-facing Message, an optional Cause and free-form
// metadata. Codes survive wrapping, so a dice notation problem raised deep in
// the evaluator still reaches the gRPC handler as INVALID_ARGUMENT.
//
// # Basic Usage
//
//	err := errors.NotFound("character not found").
//	    WithMeta("character_id", charID)
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to load character")
//	}
//
// # Dice notation
//
// Malformed notation is reported as a *ParseError carrying the offending
// token. A ParseError unwraps to an INVALID_ARGUMENT *Error, so callers can
// either inspect the token:
//
//	if pe, ok := errors.AsParseError(err); ok {
//	    reply("I don't understand %q", pe.Token)
//	}
//
// or treat it like any other invalid argument:
//
//	if errors.IsInvalidArgument(err) { ... }
//
// # Layer-Specific Guidelines
//
// Repository layer:
//   - Return domain-specific errors (NotFound, AlreadyExists)
//   - Wrap Redis errors with context
//
// Orchestrator layer:
//   - Validate inputs and return InvalidArgument errors
//   - Wrap repository and engine errors with business context
//
// Handler layer:
//   - Convert errors with ToGRPCError
package errors
