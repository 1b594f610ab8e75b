// Package tools defines the capabilities the planning agent may call.
//
// Includes:
//   - Tool: name, description, JSON Schema of the arguments, Call.
//   - Registry: fixed name -> Tool map built once at start-up.
//   - Result: Success/Failure tagged text; tools never return errors to the agent.
//   - get_travel_duration (Google Directions) and web_search (search.Engine).
package tools
