/*
Package client implements the consensus client layer of ISMP. Consensus
clients are registered in a Router keyed by their ConsensusClientID and are
resolved for every consensus state through the id recorded when the state was
created. The handler sub package drives creation, updates and freezing of
consensus states.
*/
package client
