package eth

// ledgerABI is the tutoring ledger contract's ABI, limited to the
// functions this client uses. Output names and ordering must match the
// deployed contract exactly; decoding is positional.
const ledgerABI = `[
  {"inputs":[{"name":"_name","type":"string"},{"name":"_subjects","type":"string[]"},{"name":"_hourlyRate","type":"uint256"}],"name":"registerTutor","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[{"name":"_name","type":"string"}],"name":"registerStudent","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[{"name":"_tutor","type":"address"},{"name":"_subject","type":"string"},{"name":"_minutes","type":"uint256"},{"name":"_start","type":"uint256"}],"name":"bookSession","outputs":[],"stateMutability":"payable","type":"function"},
  {"inputs":[{"name":"id","type":"uint256"}],"name":"confirmSession","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[{"name":"id","type":"uint256"}],"name":"startSession","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[{"name":"id","type":"uint256"},{"name":"rating","type":"uint256"},{"name":"feedback","type":"string"}],"name":"completeSession","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[{"name":"id","type":"uint256"},{"name":"reason","type":"string"}],"name":"cancelSession","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[{"name":"tutor","type":"address"}],"name":"getTutorInfo","outputs":[{"name":"isRegistered","type":"bool"},{"name":"isActive","type":"bool"},{"name":"name","type":"string"},{"name":"hourlyRate","type":"uint256"},{"name":"avgRating","type":"uint256"},{"name":"ratingCount","type":"uint256"},{"name":"completedSessions","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"name":"student","type":"address"}],"name":"getStudentInfo","outputs":[{"name":"isRegistered","type":"bool"},{"name":"name","type":"string"},{"name":"totalSpent","type":"uint256"},{"name":"sessionsCompleted","type":"uint256"},{"name":"sessionCount","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"name":"id","type":"uint256"}],"name":"getSessionBasicInfo","outputs":[{"name":"student","type":"address"},{"name":"tutor","type":"address"},{"name":"subject","type":"string"},{"name":"duration","type":"uint256"},{"name":"status","type":"uint8"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"name":"student","type":"address"}],"name":"studentHistory","outputs":[{"name":"","type":"uint256[]"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"name":"tutor","type":"address"}],"name":"tutorSubjects","outputs":[{"name":"","type":"string[]"}],"stateMutability":"view","type":"function"},
  {"inputs":[],"name":"sessionCounter","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// Gas limits per write, matching the deployed contract's observed worst
// cases with headroom. Fixed limits keep failed estimations from blocking
// a submission the operator already approved.
const (
	gasRegisterTutor   = 500_000
	gasRegisterStudent = 200_000
	gasBookSession     = 400_000
	gasConfirmSession  = 200_000
	gasStartSession    = 200_000
	gasCompleteSession = 300_000
	gasCancelSession   = 300_000
)
