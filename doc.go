/*
Package stockroom provides the archetype core of an Entity-Component-System (ECS) runtime.

Stockroom groups entities by the exact set of components they possess (an
archetype) and stores each component in a contiguous column, keeping entities
with the same component types together for optimal cache utilization. The
centerpiece is the ArchetypeOperationHelper: a precomputed, per-archetype
dispatch table that can construct, destroy, and relocate components through
type-erased function values without per-operation type dispatch.

Core Concepts:

  - Entity: A stable handle (id + version) that represents a game object.
  - Component: A plain Go value registered once, identified by a ComponentID.
  - Archetype: A collection of entities sharing the same component set.
  - Operation helper: Per-archetype lifecycle tables driving structural edits.

Basic Usage:

	// Register components
	position, _ := stockroom.Register[Position]()
	velocity, _ := stockroom.Register[Velocity]()

	// Create a world and some entities
	world := stockroom.Factory.NewWorld()
	entities, _ := world.Entities().NewEntities(100, position, velocity)

	// Typed access into the columns
	positions, _ := stockroom.FactoryNewAccessor[Position]()
	pos, _ := positions.Get(world, entities[0])
	pos.X += 1

Component types may opt into lifecycle behavior by implementing the optional
interfaces (Initializer, Destroyer, Mover, BeforeRemover, AfterAssigner, ...)
on their pointer receiver. Types that implement none of them are trivial and
contribute nothing to the hot-path tables.

Stockroom is the underlying archetype store for the Bappa Framework but also
works as a standalone library.
*/
package stockroom
