package aws

import (
	"errors"
	"strings"

	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/smithy-go"
)

// AWS API error codes used for classification.
const (
	codeAlreadyInOrganization     = "AlreadyInOrganizationException"
	codeDuplicatePolicy           = "DuplicatePolicyException"
	codeDuplicatePolicyAttachment = "DuplicatePolicyAttachmentException"
	codePolicyTypeAlreadyEnabled  = "PolicyTypeAlreadyEnabledException"
	codeAlreadyExists             = "AlreadyExistsException"
	codeTooManyRequests           = "TooManyRequestsException"
	codeConcurrentModification    = "ConcurrentModificationException"
	codeService                   = "ServiceException"
	codeThrottling                = "Throttling"
	codeThrottlingException       = "ThrottlingException"
	codeRequestLimitExceeded      = "RequestLimitExceeded"
	codeFinalizingOrganization    = "FinalizingOrganizationException"
	codeAWSOrganizationsNotInUse  = "AWSOrganizationsNotInUseException"
)

// ErrorCode returns the API error code carried by err, or "".
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// hasErrorCode checks if err is an AWS API error with one of the given codes.
func hasErrorCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}
	code := ErrorCode(err)
	if code == "" {
		return false
	}
	for _, c := range codes {
		if code == c {
			return true
		}
	}
	return false
}

// IsAlreadyInOrganization reports whether CreateOrganization failed because
// the account already belongs to an organization.
func IsAlreadyInOrganization(err error) bool {
	var typed *orgtypes.AlreadyInOrganizationException
	return errors.As(err, &typed) || hasErrorCode(err, codeAlreadyInOrganization)
}

// IsDuplicatePolicy reports whether CreatePolicy failed on a duplicate name.
func IsDuplicatePolicy(err error) bool {
	var typed *orgtypes.DuplicatePolicyException
	return errors.As(err, &typed) || hasErrorCode(err, codeDuplicatePolicy)
}

// IsDuplicatePolicyAttachment reports whether the policy is already attached.
func IsDuplicatePolicyAttachment(err error) bool {
	var typed *orgtypes.DuplicatePolicyAttachmentException
	return errors.As(err, &typed) || hasErrorCode(err, codeDuplicatePolicyAttachment)
}

// IsPolicyTypeAlreadyEnabled reports whether the policy type is already enabled.
func IsPolicyTypeAlreadyEnabled(err error) bool {
	var typed *orgtypes.PolicyTypeAlreadyEnabledException
	return errors.As(err, &typed) || hasErrorCode(err, codePolicyTypeAlreadyEnabled)
}

// IsTransient reports whether err is a throttling, in-progress or server-side
// condition that is expected to clear on retry.
func IsTransient(err error) bool {
	return hasErrorCode(err,
		codeTooManyRequests,
		codeConcurrentModification,
		codeService,
		codeThrottling,
		codeThrottlingException,
		codeRequestLimitExceeded,
		codeFinalizingOrganization,
	)
}

// IsOrganizationNotInUse reports whether the caller is not in any organization.
func IsOrganizationNotInUse(err error) bool {
	return hasErrorCode(err, codeAWSOrganizationsNotInUse)
}

// IsStackAlreadyExists reports whether CreateStack failed because a stack
// with the same name exists. The typed exception is checked first, then the
// error code, then the message as a last resort.
func IsStackAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	var typed *cftypes.AlreadyExistsException
	if errors.As(err, &typed) {
		return true
	}
	if hasErrorCode(err, codeAlreadyExists) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, codeAlreadyExists) ||
		(strings.Contains(msg, "Stack [") && strings.Contains(msg, "already exists"))
}
