package utils

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransactionCode builds the globally unique human-readable code:
// TRX-<branch_code>-<yyyyMMddHHmmss>-<4 hex>.
func TransactionCode(branchCode string) string {
	prefix := "TRX-"
	if branchCode != "" {
		prefix = fmt.Sprintf("TRX-%s-", branchCode)
	}
	return fmt.Sprintf("%s%s-%s", prefix, time.Now().Format("20060102150405"), randHex(4))
}

// MembershipCode builds the member-facing card code for a membership grant.
func MembershipCode() string {
	return fmt.Sprintf("MBR-%s-%s", time.Now().Format("20060102"), randHex(6))
}

func randHex(n int) string {
	u := uuid.New()
	return strings.ToUpper(hex.EncodeToString(u[:])[:n])
}
