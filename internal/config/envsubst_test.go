package config

import (
	"testing"
)

func TestSubstituteEnvVars_Simple(t *testing.T) {
	t.Setenv("TEST_VAR_SIMPLE", "hello")

	content, missing := substituteEnvVars("value = ${TEST_VAR_SIMPLE}")
	if content != "value = hello" {
		t.Errorf("expected 'value = hello', got %q", content)
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing vars, got %v", missing)
	}
}

func TestSubstituteEnvVars_Missing(t *testing.T) {
	// t.Setenv cannot truly unset, so use a name that is never set
	content, missing := substituteEnvVars("value = ${FLIXCASE_TEST_NONEXISTENT_VAR_12345}")
	if content != "value = ${FLIXCASE_TEST_NONEXISTENT_VAR_12345}" {
		t.Errorf("expected unchanged, got %q", content)
	}
	if len(missing) != 1 || missing[0] != "FLIXCASE_TEST_NONEXISTENT_VAR_12345" {
		t.Errorf("expected [FLIXCASE_TEST_NONEXISTENT_VAR_12345], got %v", missing)
	}
}

func TestSubstituteEnvVars_EmptyIsSet(t *testing.T) {
	t.Setenv("EMPTY_VAR_PLAIN", "")

	content, missing := substituteEnvVars(`root = "${EMPTY_VAR_PLAIN}"`)
	if content != `root = ""` {
		t.Errorf("expected empty substitution, got %q", content)
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing vars, got %v", missing)
	}
}

func TestSubstituteEnvVars_Default(t *testing.T) {
	// Empty string triggers the default, same as unset
	t.Setenv("UNSET_VAR_DEFAULT", "")

	content, missing := substituteEnvVars("value = ${UNSET_VAR_DEFAULT:-./library}")
	if content != "value = ./library" {
		t.Errorf("expected 'value = ./library', got %q", content)
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing vars with default, got %v", missing)
	}
}

func TestSubstituteEnvVars_DefaultOverriddenByEnv(t *testing.T) {
	t.Setenv("SET_VAR_OVERRIDE", "from_env")

	content, missing := substituteEnvVars("value = ${SET_VAR_OVERRIDE:-default}")
	if content != "value = from_env" {
		t.Errorf("expected 'value = from_env', got %q", content)
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing vars, got %v", missing)
	}
}

func TestSubstituteEnvVars_RequiredError(t *testing.T) {
	t.Setenv("REQUIRED_VAR_TEST", "")

	content, missing := substituteEnvVars("value = ${REQUIRED_VAR_TEST:?library root is required}")
	if content != "value = ${REQUIRED_VAR_TEST:?library root is required}" {
		t.Errorf("expected unchanged, got %q", content)
	}
	if len(missing) != 1 || missing[0] != "REQUIRED_VAR_TEST: library root is required" {
		t.Errorf("expected error message, got %v", missing)
	}
}

func TestSubstituteEnvVars_Multiple(t *testing.T) {
	t.Setenv("VAR1_MULTI", "one")
	t.Setenv("VAR3_MULTI", "")

	content, missing := substituteEnvVars("${VAR1_MULTI} ${FLIXCASE_VAR2_NONEXISTENT} ${VAR3_MULTI:-three}")
	if content != "one ${FLIXCASE_VAR2_NONEXISTENT} three" {
		t.Errorf("expected 'one ${FLIXCASE_VAR2_NONEXISTENT} three', got %q", content)
	}
	if len(missing) != 1 || missing[0] != "FLIXCASE_VAR2_NONEXISTENT" {
		t.Errorf("expected [FLIXCASE_VAR2_NONEXISTENT], got %v", missing)
	}
}

func TestSubstituteEnvVars_SkipsComments(t *testing.T) {
	t.Setenv("COMMENT_VAR_SET", "yes")

	input := "# reference ${FLIXCASE_COMMENT_NONEXISTENT}\n  # ${COMMENT_VAR_SET}\nvalue = ${COMMENT_VAR_SET}\n"
	content, missing := substituteEnvVars(input)
	want := "# reference ${FLIXCASE_COMMENT_NONEXISTENT}\n  # ${COMMENT_VAR_SET}\nvalue = yes\n"
	if content != want {
		t.Errorf("expected %q, got %q", want, content)
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing vars, got %v", missing)
	}
}
