package teams

import "errors"

var (
	ErrTeamNotFound      = errors.New("team not found")
	ErrHackathonNotFound = errors.New("hackathon not found")
	ErrMemberNotFound    = errors.New("member not found")

	ErrAlreadyMember = errors.New("user is already a member of this team")
	ErrAlreadyInTeam = errors.New("user already belongs to a team in this hackathon")
	ErrTeamFull      = errors.New("team is full")

	ErrNotLeader          = errors.New("only the team leader may perform this action")
	ErrLeadershipRequired = errors.New("leadership must be transferred first")

	ErrNameRequired      = errors.New("team name is required")
	ErrInvalidMaxMembers = errors.New("max members must be at least 1")
	ErrMaxBelowCount     = errors.New("max members cannot be below the current member count")
)
