// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// TierKind identifies one of the fixed memory tiers.
type TierKind string

const (
	// TierGlobal is shared memory visible to every caller.
	TierGlobal TierKind = "global"
	// TierLearned holds learned patterns and insights.
	TierLearned TierKind = "learned"
	// TierAgent is memory partitioned per agent identifier.
	TierAgent TierKind = "agent"
	// TierCustom is a caller-named tier backed by its own collection.
	TierCustom TierKind = "custom"
)

// Collection names for the fixed tiers.
const (
	globalCollection     = "global_memory"
	learnedCollection    = "learned_memory"
	agentCollectionStem  = "agent_specific_memory"
	customCollectionStem = "custom_memory"
)

// Tier is a routed memory destination. The agent tier additionally carries
// the agent identifier; the custom tier carries its name.
type Tier struct {
	Kind    TierKind
	AgentID string
	Name    string
}

// GlobalTier returns the global tier.
func GlobalTier() Tier { return Tier{Kind: TierGlobal} }

// LearnedTier returns the learned tier.
func LearnedTier() Tier { return Tier{Kind: TierLearned} }

// AgentTier returns the agent tier for the given agent identifier.
func AgentTier(agentID string) Tier { return Tier{Kind: TierAgent, AgentID: agentID} }

// CustomTier returns a custom tier with the given name.
func CustomTier(name string) Tier { return Tier{Kind: TierCustom, Name: name} }

// ParseTier resolves a caller-supplied tier name into a Tier. The caller's
// choice is authoritative: unknown names fail, they are never remapped.
func ParseTier(kind, agentID, name string) (Tier, error) {
	switch TierKind(strings.ToLower(strings.TrimSpace(kind))) {
	case TierGlobal:
		return GlobalTier(), nil
	case TierLearned:
		return LearnedTier(), nil
	case TierAgent:
		t := AgentTier(agentID)
		return t, t.Validate()
	case TierCustom:
		t := CustomTier(name)
		return t, t.Validate()
	default:
		return Tier{}, fmt.Errorf("%w: %q", ErrInvalidTier, kind)
	}
}

// Validate checks that the tier is one of the known kinds and that the
// kind-specific identifier is present.
func (t Tier) Validate() error {
	switch t.Kind {
	case TierGlobal, TierLearned:
		return nil
	case TierAgent:
		if strings.TrimSpace(t.AgentID) == "" {
			return ErrAgentIDRequired
		}
		return nil
	case TierCustom:
		if strings.TrimSpace(t.Name) == "" {
			return ErrTierNameRequired
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTier, t.Kind)
	}
}

// Collection returns the storage collection backing this tier. The mapping is
// a pure function of the tier, so repeated routing of the same tier always
// targets the same collection.
func (t Tier) Collection() (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	switch t.Kind {
	case TierGlobal:
		return globalCollection, nil
	case TierLearned:
		return learnedCollection, nil
	case TierAgent:
		return agentCollectionStem + "_" + t.AgentID, nil
	default:
		return customCollectionStem + "_" + t.Name, nil
	}
}

func (t Tier) String() string {
	switch t.Kind {
	case TierAgent:
		return string(t.Kind) + ":" + t.AgentID
	case TierCustom:
		return string(t.Kind) + ":" + t.Name
	default:
		return string(t.Kind)
	}
}
