package signature

// Builtins returns the built-in provider signatures in declaration order.
//
// The patterns target artifacts that survive minification: provider CDN
// hostnames, widget bootstrap calls, and well-known endpoint paths. Literal
// patterns are preferred where a hostname is distinctive enough; regular
// expressions are used where matching must anchor on code structure (e.g.
// "Duo.init(") to avoid false positives on prose mentioning the vendor.
//
// A fresh slice is returned on each call so callers can never mutate the
// canonical definitions.
func Builtins() []Signature {
	return []Signature{
		{
			Name: "Okta",
			HTMLPatterns: []Pattern{
				Literal{Value: "okta.com"},
				Literal{Value: "oktacdn.com"},
			},
			ScriptPatterns: []Pattern{
				MustRegex(`new\s+OktaSignIn\s*\(`),
				MustRegex(`OktaAuth\s*\(`),
				Literal{Value: "okta-signin-widget"},
			},
		},
		{
			Name: "Duo",
			HTMLPatterns: []Pattern{
				Literal{Value: "duosecurity.com"},
				Literal{Value: "duo_iframe"},
			},
			ScriptPatterns: []Pattern{
				MustRegex(`Duo\.init\s*\(`),
				Literal{Value: "duo-frame"},
			},
		},
		{
			Name: "Auth0",
			HTMLPatterns: []Pattern{
				Literal{Value: "auth0.com"},
				Literal{Value: "cdn.auth0.com"},
			},
			ScriptPatterns: []Pattern{
				MustRegex(`new\s+auth0\.WebAuth\s*\(`),
				MustRegex(`createAuth0Client\s*\(`),
				Literal{Value: "auth0-lock"},
			},
		},
		{
			Name: "OneLogin",
			HTMLPatterns: []Pattern{
				Literal{Value: "onelogin.com"},
			},
			ScriptPatterns: []Pattern{
				Literal{Value: "onelogin.com/oidc"},
			},
		},
		{
			Name: "Ping Identity",
			HTMLPatterns: []Pattern{
				Literal{Value: "pingidentity.com"},
				Literal{Value: "pingone.com"},
			},
			ScriptPatterns: []Pattern{
				Literal{Value: "pingone.com/as/authorize"},
			},
		},
		{
			Name: "Microsoft Entra ID",
			HTMLPatterns: []Pattern{
				Literal{Value: "login.microsoftonline.com"},
				Literal{Value: "login.windows.net"},
			},
			ScriptPatterns: []Pattern{
				// msal alone is too short to be safe as a literal
				MustRegex(`msal(-browser)?(\.min)?\.js`),
				MustRegex(`new\s+(msal\.)?PublicClientApplication\s*\(`),
			},
		},
		{
			Name: "Google Identity",
			HTMLPatterns: []Pattern{
				Literal{Value: "accounts.google.com/gsi"},
				Literal{Value: "g_id_signin"},
			},
			ScriptPatterns: []Pattern{
				MustRegex(`google\.accounts\.id\.initialize\s*\(`),
				Literal{Value: "accounts.google.com/gsi/client"},
			},
		},
		{
			Name: "RSA SecurID",
			HTMLPatterns: []Pattern{
				Literal{Value: "securid"},
				Group{Mode: GroupAND, Patterns: []Pattern{
					Literal{Value: "rsa"},
					Literal{Value: "passcode"},
				}},
			},
			ScriptPatterns: []Pattern{
				Literal{Value: "securid"},
			},
		},
		{
			Name: "Symantec VIP",
			HTMLPatterns: []Pattern{
				Literal{Value: "vip.symantec.com"},
				Literal{Value: "vipuserservices"},
			},
			ScriptPatterns: []Pattern{
				Literal{Value: "vipuserservices"},
			},
		},
		{
			Name: "Yubico",
			HTMLPatterns: []Pattern{
				Literal{Value: "yubico.com"},
				Literal{Value: "yubikey"},
			},
			ScriptPatterns: []Pattern{
				MustRegex(`navigator\.credentials\.(get|create)\s*\(`),
				Literal{Value: "u2f-api"},
			},
		},
		{
			Name: "Authy",
			HTMLPatterns: []Pattern{
				Literal{Value: "authy.com"},
			},
			ScriptPatterns: []Pattern{
				Literal{Value: "authy-form-helpers"},
				MustRegex(`authy[-_]?token`),
			},
		},
		{
			Name: "Cisco Secure Access",
			HTMLPatterns: []Pattern{
				Literal{Value: "sso.cisco.com"},
				Literal{Value: "secure-access.cisco.com"},
			},
			ScriptPatterns: []Pattern{
				Literal{Value: "sso.cisco.com"},
			},
		},
	}
}
