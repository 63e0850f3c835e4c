package ismptesting

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	testifysuite "github.com/stretchr/testify/suite"

	abci "github.com/cometbft/cometbft/abci/types"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
)

// ParseConsensusStateIDFromEvents parses events emitted from a create consensus
// state call and returns the consensus state id.
func ParseConsensusStateIDFromEvents(events []abci.Event) (clienttypes.ConsensusStateID, error) {
	for _, ev := range events {
		if ev.Type != clienttypes.EventTypeCreateConsensusClient {
			continue
		}
		if attribute, found := attributeByKey(ev.Attributes, clienttypes.AttributeKeyConsensusStateID); found {
			return clienttypes.ParseConsensusStateID(attribute.Value)
		}
	}
	return clienttypes.ConsensusStateID{}, errors.New("consensus state id event attribute not found")
}

// ParseLatestHeightFromEvents returns the latest height reported for the given
// state machine by a consensus update.
func ParseLatestHeightFromEvents(id clienttypes.StateMachineID, events []abci.Event) (uint64, error) {
	for _, ev := range events {
		if ev.Type != clienttypes.EventTypeStateMachineUpdated {
			continue
		}
		if !containsAttribute(ev.Attributes, clienttypes.AttributeKeyStateMachineID, id.String()) {
			continue
		}
		if attribute, found := attributeByKey(ev.Attributes, clienttypes.AttributeKeyLatestHeight); found {
			return strconv.ParseUint(attribute.Value, 10, 64)
		}
	}
	return 0, fmt.Errorf("no state machine updated event for %s", id)
}

// ParseDispatchCommitmentsFromEvents returns the commitments of every dispatch
// event of the given type, split by the success of the module callback.
func ParseDispatchCommitmentsFromEvents(eventType string, events []abci.Event) (succeeded, failed []common.Hash, err error) {
	for _, ev := range events {
		if ev.Type != eventType {
			continue
		}

		commitment, found := attributeByKey(ev.Attributes, channeltypes.AttributeKeyCommitment)
		if !found {
			return nil, nil, fmt.Errorf("%s event without %s attribute", eventType, channeltypes.AttributeKeyCommitment)
		}

		success, found := attributeByKey(ev.Attributes, channeltypes.AttributeKeySuccess)
		if !found {
			return nil, nil, fmt.Errorf("%s event without %s attribute", eventType, channeltypes.AttributeKeySuccess)
		}

		ok, err := strconv.ParseBool(success.Value)
		if err != nil {
			return nil, nil, err
		}

		if ok {
			succeeded = append(succeeded, common.HexToHash(commitment.Value))
		} else {
			failed = append(failed, common.HexToHash(commitment.Value))
		}
	}
	return succeeded, failed, nil
}

// AssertEvents asserts that expected events are present in the actual events.
func AssertEvents(
	suite *testifysuite.Suite,
	expected []abci.Event,
	actual []abci.Event,
) {
	foundEvents := make(map[int]bool)

	for i, expectedEvent := range expected {
		for _, actualEvent := range actual {
			if shouldProcessEvent(expectedEvent, actualEvent) {
				attributeMatch := true
				for _, expectedAttr := range expectedEvent.Attributes {
					// any expected attributes that are not contained in the actual events will cause this event
					// not to match
					attributeMatch = attributeMatch && containsAttribute(actualEvent.Attributes, expectedAttr.Key, expectedAttr.Value)
				}

				if attributeMatch {
					foundEvents[i] = true
				}
			}
		}
	}

	for i, expectedEvent := range expected {
		suite.Require().True(foundEvents[i], "event: %s was not found in events", expectedEvent.Type)
	}
}

// shouldProcessEvent returns true if the given expected event should be processed based on event type.
func shouldProcessEvent(expectedEvent abci.Event, actualEvent abci.Event) bool {
	if expectedEvent.Type != actualEvent.Type {
		return false
	}
	// the actual event will have an extra attribute added automatically
	// by Cosmos SDK since v0.50, that's why we subtract 1 when comparing
	// with the number of attributes in the expected event.
	if containsAttributeKey(actualEvent.Attributes, "msg_index") {
		return len(expectedEvent.Attributes) == len(actualEvent.Attributes)-1
	}

	return len(expectedEvent.Attributes) == len(actualEvent.Attributes)
}

// containsAttribute returns true if the given key/value pair is contained in the given attributes.
// NOTE: this ignores the indexed field, which can be set or unset depending on how the events are retrieved.
func containsAttribute(attrs []abci.EventAttribute, key, value string) bool {
	return slices.ContainsFunc(attrs, func(attr abci.EventAttribute) bool {
		return attr.Key == key && attr.Value == value
	})
}

// containsAttributeKey returns true if the given key is contained in the given attributes.
func containsAttributeKey(attrs []abci.EventAttribute, key string) bool {
	_, found := attributeByKey(attrs, key)
	return found
}

// attributeByKey returns the event attribute's value keyed by the given key and a boolean indicating its presence in the given attributes.
func attributeByKey(attributes []abci.EventAttribute, key string) (abci.EventAttribute, bool) {
	idx := slices.IndexFunc(attributes, func(a abci.EventAttribute) bool { return a.Key == key })
	if idx == -1 {
		return abci.EventAttribute{}, false
	}
	return attributes[idx], true
}
