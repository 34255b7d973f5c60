package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"

	"github.com/allsmog/zksch-go/pkg/crypto/curve"
	"github.com/allsmog/zksch-go/pkg/crypto/transcript"
	"github.com/allsmog/zksch-go/pkg/crypto/zksch"
)

// proofFile is what prove writes and verify reads.
type proofFile struct {
	Curve     string                `json:"curve"`
	Hash      string                `json:"hash"`
	Session   string                `json:"session"`
	Generator zksch.AffinePointJSON `json:"generator"`
	Public    zksch.AffinePointJSON `json:"public"`
	Proof     zksch.ProofJSON       `json:"proof"`
}

type keyFile struct {
	Curve     string                `json:"curve"`
	SecretHex string                `json:"secretHex"`
	Public    zksch.AffinePointJSON `json:"public"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "keygen":
		err = runKeygen(os.Args[2:])
	case "prove":
		err = runProve(os.Args[2:])
	case "verify":
		err = runVerify(os.Args[2:])
	case "demo":
		err = runDemo(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: zksch <keygen|prove|verify|demo> [flags]")
	fmt.Fprintln(os.Stderr, "  keygen -out key.json")
	fmt.Fprintln(os.Stderr, "  prove  -key key.json -out proof.json [-session id] [-hash blake3|sha3-256]")
	fmt.Fprintln(os.Stderr, "  verify -in proof.json")
	fmt.Fprintln(os.Stderr, "  demo   [-curve secp256k1|ristretto255] [-hash blake3|sha3-256]")
}

// newTranscript returns a transcript over the named hash seeded with the session label.
func newTranscript(hashName, session string) (*transcript.Transcript, error) {
	var t *transcript.Transcript
	switch strings.ToLower(hashName) {
	case "blake3":
		t = transcript.New()
	case "sha3-256":
		t = transcript.NewWithHash(sha3.New256)
	default:
		return nil, fmt.Errorf("unsupported hash: %s", hashName)
	}
	return t.Update(transcript.Text(session)), nil
}

func runKeygen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	out := fs.String("out", "key.json", "Output key file")
	_ = fs.Parse(args)

	crv := curve.NewSecp256k1()
	x, X, err := zksch.GenerateKeyPair(crv, crv.Generator())
	if err != nil {
		return err
	}

	public, err := zksch.PointToJSON(X)
	if err != nil {
		return err
	}

	if err := writeJSON(*out, keyFile{Curve: crv.Name(), SecretHex: zksch.EncodeHex(x.BigInt()), Public: public}); err != nil {
		return err
	}

	log.Printf("Wrote key pair to %s", *out)
	return nil
}

func runProve(args []string) error {
	fs := flag.NewFlagSet("prove", flag.ExitOnError)
	keyPath := fs.String("key", "key.json", "Key file written by keygen")
	out := fs.String("out", "proof.json", "Output proof file")
	session := fs.String("session", "", "Session label absorbed before the proof (random UUID if empty)")
	hashName := fs.String("hash", "blake3", "Transcript hash (blake3|sha3-256)")
	_ = fs.Parse(args)

	var key keyFile
	if err := readJSON(*keyPath, &key); err != nil {
		return err
	}

	crv, err := affineCurve(key.Curve)
	if err != nil {
		return err
	}

	secretInt, err := zksch.DecodeHex(key.SecretHex)
	if err != nil {
		return fmt.Errorf("secretHex: %w", err)
	}
	secret := crv.NewScalar(secretInt)

	public, err := zksch.PointFromJSON(crv, key.Public)
	if err != nil {
		return fmt.Errorf("public: %w", err)
	}

	if *session == "" {
		*session = uuid.NewString()
	}

	t, err := newTranscript(*hashName, *session)
	if err != nil {
		return err
	}

	gen := crv.Generator()
	proof, err := zksch.CreateProof(crv, t, public, secret, gen)
	if err != nil {
		return err
	}

	proofJSON, err := proof.ToJSON()
	if err != nil {
		return err
	}
	genJSON, err := zksch.PointToJSON(gen)
	if err != nil {
		return err
	}

	pf := proofFile{
		Curve:     crv.Name(),
		Hash:      *hashName,
		Session:   *session,
		Generator: genJSON,
		Public:    key.Public,
		Proof:     proofJSON,
	}
	if err := writeJSON(*out, pf); err != nil {
		return err
	}

	log.Printf("Wrote proof for session %s to %s", *session, *out)
	return nil
}

func runVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	in := fs.String("in", "proof.json", "Proof file written by prove")
	_ = fs.Parse(args)

	var pf proofFile
	if err := readJSON(*in, &pf); err != nil {
		return err
	}

	crv, err := affineCurve(pf.Curve)
	if err != nil {
		return err
	}

	gen, err := zksch.PointFromJSON(crv, pf.Generator)
	if err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	public, err := zksch.PointFromJSON(crv, pf.Public)
	if err != nil {
		return fmt.Errorf("public: %w", err)
	}
	proof, err := zksch.ProofFromJSON(crv, pf.Proof)
	if err != nil {
		return err
	}

	t, err := newTranscript(pf.Hash, pf.Session)
	if err != nil {
		return err
	}

	if !zksch.VerifyProof(crv, proof, t, public, gen) {
		return fmt.Errorf("proof rejected")
	}

	log.Printf("Proof accepted (session %s)", pf.Session)
	return nil
}

// runDemo proves and verifies in-process, including on curves without an
// affine wire form.
func runDemo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	curveName := fs.String("curve", "secp256k1", "Curve to use ("+strings.Join(curve.SupportedCurves(), "|")+")")
	hashName := fs.String("hash", "blake3", "Transcript hash (blake3|sha3-256)")
	_ = fs.Parse(args)

	crv, err := curve.FromName(*curveName)
	if err != nil {
		return err
	}
	log.Printf("Using curve: %s, hash: %s", crv.Name(), *hashName)

	base, err := newTranscript(*hashName, uuid.NewString())
	if err != nil {
		return err
	}

	gen := crv.Generator()
	x, X, err := zksch.GenerateKeyPair(crv, gen)
	if err != nil {
		return err
	}
	log.Printf("  Public point: %x", X.Bytes())

	proof, err := zksch.CreateProof(crv, base.Clone(), X, x, gen)
	if err != nil {
		return err
	}
	log.Printf("  Commitment: %x", proof.C.C.Bytes())
	log.Printf("  Response: %s", zksch.EncodeHex(proof.Z.Z.BigInt()))

	if !zksch.VerifyProof(crv, proof, base.Clone(), X, gen) {
		return fmt.Errorf("honest proof rejected")
	}
	log.Println("  Honest proof accepted")

	_, stranger, err := zksch.GenerateKeyPair(crv, gen)
	if err != nil {
		return err
	}
	if zksch.VerifyProof(crv, proof, base.Clone(), stranger, gen) {
		return fmt.Errorf("proof accepted for the wrong public point")
	}
	log.Println("  Proof rejected for a different public point")

	return nil
}

func affineCurve(name string) (curve.AffineCurve, error) {
	crv, err := curve.FromName(name)
	if err != nil {
		return nil, err
	}
	ac, ok := crv.(curve.AffineCurve)
	if !ok {
		return nil, fmt.Errorf("curve %s has no affine wire form", name)
	}
	return ac, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
