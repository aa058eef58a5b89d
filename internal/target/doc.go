// Package target provides moving targets for a spring to chase.
//
// Each profile implements [dynamo.Controller] and returns a one-element
// control vector holding the target position at time t:
//
//   - [Constant]: fixed target
//   - [Step]: jumps from one value to another at a given time
//   - [Sine]: smooth periodic target
//   - [Square]: alternates between two levels every half period
//   - [Manual]: set from outside, e.g. by key presses in the live view
//
// The state argument is ignored; targets are open-loop.
package target
