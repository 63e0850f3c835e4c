/*
Package channel implements ISMP request and response delivery. Incoming
requests, responses and timeouts are proven against a state commitment of
the source state machine that has passed its challenge period, and then
dispatched to the destination module through the IsmpRouter.

Requests are delivered exactly once: a receipt keyed by the request
commitment is written before the module callback runs. Responses are
accepted only for requests this host committed, and a request that has
timed out can no longer be answered. The handler sub package contains the
delivery logic and the types sub package the wire types and commitments.
*/
package channel
