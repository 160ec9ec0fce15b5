// Package testhelpers provides utilities for testing tapctl's own packages.
//
// The package includes several key components:
//
// # TestEnvironment
//
// TestEnvironment provides an isolated environment for testing with automatic cleanup:
//
//	func TestMyTask(t *testing.T) {
//	    env := testhelpers.NewTestEnvironment(t)
//
//	    env.WriteFile("config.yaml", "key: value")
//	    env.SetEnv("MY_VAR", "test")
//
//	    output := env.CaptureOutput(func() {
//	        MyTask()
//	    })
//
//	    env.AssertFileContains("output.txt", "expected content")
//	}
//
// # BaseSuite
//
// BaseSuite embeds testify's suite.Suite and sets up a temporary directory
// (and optionally a TestEnvironment, a go.mod and a git repository) from
// its Options; DefaultOptions returns the usual settings:
//
//	type MySuite struct {
//	    testhelpers.BaseSuite
//	}
//
//	func (s *MySuite) SetupSuite() {
//	    s.Options = testhelpers.DefaultOptions()
//	    s.BaseSuite.SetupSuite()
//	}
//
//	func (s *MySuite) TestSomething() {
//	    s.SetEnvVar("MY_VAR", "test")
//	    s.CreateTempFile("data.txt", "hello world")
//	    s.AssertFileContains("data.txt", "hello")
//	}
//
// BaseSuite also offers ReadTempFile, AssertFileExists, AssertFileNotExists,
// AssertFileNotContains, CreateGoModFile and CreateMageConfig.
//
// The package has no command-runner mock, fixture builder, workspace type,
// skip helpers or golden-file helpers.
package testhelpers
