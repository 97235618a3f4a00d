/*
Package weave holds the interfaces shared by the ballot chain: the key value
store seen by handlers, the messages and transactions they process, the
handler and decorator contracts, and the query router serving the committed
state.

The ballot module itself lives in x/ballot. The app package turns a router,
a decorator chain and a commit store into an ABCI application, and
cmd/ballotd wires everything into a node binary.
*/
package weave
