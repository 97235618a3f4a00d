/*
Package ballot implements weighted voting with delegation.

A ballot is created with an ordered list of proposal names. The creator
becomes the chairperson and receives a voting weight of one. Only the
chairperson can grant the right to vote, which gives a voter a weight of
one. A voter with a weight can either vote for a proposal, adding the whole
weight to the proposal vote count, or delegate to another voter.

Delegation follows the chain of delegates until it reaches a voter that did
not delegate. If that voter already voted, the weight is added directly to
the chosen proposal. Otherwise it is added to that voter's weight. A chain
that leads back to the delegating voter is rejected with ErrCycle.

Every operation is all or nothing. A voter that voted or delegated cannot
take part in the ballot again.

The winning proposal is the one with the highest vote count. When counts
are equal the proposal with the lowest index wins.
*/
package ballot
